package staff

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

var (
	ErrPasswordMismatch    = errors.New("password does not match")
	ErrUnsupportedPassword = errors.New("unsupported password hash format")
)

const pbkdf2Prefix = "pbkdf2_sha256"

// Password holds an encoded hash as stored in auth_user.password. Django's
// pbkdf2_sha256$<iterations>$<salt>$<hash> format and plain bcrypt hashes are understood;
// new hashes are bcrypt.
type Password struct {
	hash string
}

func NewPassword(encoded string) Password {
	return Password{hash: encoded}
}

func (p *Password) Set(text string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(text), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	p.hash = string(hash)
	return nil
}

func (p Password) Encoded() string { return p.hash }

func (p Password) Compare(text string) error {
	switch {
	case p.hash == "" || strings.HasPrefix(p.hash, "!"):
		// unusable password
		return ErrPasswordMismatch
	case strings.HasPrefix(p.hash, pbkdf2Prefix+"$"):
		return comparePBKDF2(p.hash, text)
	case strings.HasPrefix(p.hash, "$2"):
		if err := bcrypt.CompareHashAndPassword([]byte(p.hash), []byte(text)); err != nil {
			return ErrPasswordMismatch
		}
		return nil
	default:
		return ErrUnsupportedPassword
	}
}

func comparePBKDF2(encoded, text string) error {
	parts := strings.SplitN(encoded, "$", 4)
	if len(parts) != 4 {
		return ErrUnsupportedPassword
	}

	iterations, err := strconv.Atoi(parts[1])
	if err != nil || iterations <= 0 {
		return ErrUnsupportedPassword
	}

	want, err := base64.StdEncoding.DecodeString(parts[3])
	if err != nil {
		return ErrUnsupportedPassword
	}

	got := pbkdf2.Key([]byte(text), []byte(parts[2]), iterations, len(want), sha256.New)
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return ErrPasswordMismatch
	}
	return nil
}

// EncodePBKDF2 produces a Django compatible pbkdf2_sha256 hash.
func EncodePBKDF2(text, salt string, iterations int) string {
	key := pbkdf2.Key([]byte(text), []byte(salt), iterations, sha256.Size, sha256.New)
	return pbkdf2Prefix + "$" + strconv.Itoa(iterations) + "$" + salt + "$" + base64.StdEncoding.EncodeToString(key)
}
