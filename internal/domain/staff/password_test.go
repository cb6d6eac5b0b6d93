package staff

import (
	"errors"
	"testing"
)

func TestPasswordCompare(t *testing.T) {
	t.Parallel()

	var bcryptPw Password
	if err := bcryptPw.Set("s3cret-pass"); err != nil {
		t.Fatalf("set: %v", err)
	}

	tests := []struct {
		name    string
		pw      Password
		attempt string
		wantErr error
	}{
		{"bcrypt match", bcryptPw, "s3cret-pass", nil},
		{"bcrypt mismatch", bcryptPw, "wrong", ErrPasswordMismatch},
		{"pbkdf2 match", NewPassword(EncodePBKDF2("s3cret-pass", "abcd1234", 1000)), "s3cret-pass", nil},
		{"pbkdf2 mismatch", NewPassword(EncodePBKDF2("s3cret-pass", "abcd1234", 1000)), "nope", ErrPasswordMismatch},
		{"pbkdf2 malformed iterations", NewPassword("pbkdf2_sha256$x$salt$aGFzaA=="), "a", ErrUnsupportedPassword},
		{"unusable password", NewPassword("!abcdef"), "a", ErrPasswordMismatch},
		{"empty hash", NewPassword(""), "a", ErrPasswordMismatch},
		{"unknown algorithm", NewPassword("md5$salt$hash"), "a", ErrUnsupportedPassword},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.pw.Compare(tt.attempt)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Compare() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestOperatorRole(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		op        Operator
		role      string
		viewAdmin bool
	}{
		{"superuser", Operator{IsSuperuser: true, IsActive: true}, RoleSuperuser, true},
		{"staff", Operator{IsStaff: true, IsActive: true}, RoleStaff, true},
		{"inactive staff", Operator{IsStaff: true}, RoleStaff, false},
		{"plain user", Operator{IsActive: true}, RoleUser, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.op.Role(); got != tt.role {
				t.Errorf("Role() = %q, want %q", got, tt.role)
			}
			if got := tt.op.CanViewAdmin(); got != tt.viewAdmin {
				t.Errorf("CanViewAdmin() = %v, want %v", got, tt.viewAdmin)
			}
		})
	}
}

func TestDisplayName(t *testing.T) {
	t.Parallel()

	if got := (&Operator{Username: "tendai"}).DisplayName(); got != "tendai" {
		t.Errorf("got %q", got)
	}
	if got := (&Operator{Username: "tendai", FirstName: "Tendai", LastName: "Moyo"}).DisplayName(); got != "Tendai Moyo" {
		t.Errorf("got %q", got)
	}
}
