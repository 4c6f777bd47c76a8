package bot

import (
	"context"
	"reflect"
	"strings"
	"testing"
)

func noopBot(ctx context.Context, s Session) error { return nil }

func TestRegistryRegisterAndResolve(t *testing.T) {
	r := NewRegistry()
	if err := r.Register("demo", noopBot); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	fn, err := r.Resolve("demo")
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if fn == nil {
		t.Fatal("Resolve() returned nil function")
	}
}

func TestRegistryRegisterErrors(t *testing.T) {
	tests := []struct {
		name    string
		botName string
		fn      Func
		setup   func(*Registry)
		wantErr string
	}{
		{
			name:    "empty name",
			botName: "",
			fn:      noopBot,
			wantErr: "cannot be empty",
		},
		{
			name:    "nil function",
			botName: "demo",
			fn:      nil,
			wantErr: "cannot be nil",
		},
		{
			name:    "duplicate",
			botName: "demo",
			fn:      noopBot,
			setup: func(r *Registry) {
				if err := r.Register("demo", noopBot); err != nil {
					t.Fatalf("setup Register() error = %v", err)
				}
			},
			wantErr: "already registered",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			if tt.setup != nil {
				tt.setup(r)
			}
			err := r.Register(tt.botName, tt.fn)
			if err == nil {
				t.Fatal("Register() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Register() error = %q, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestRegistryResolveUnknown(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Resolve("missing"); err == nil {
		t.Fatal("Resolve() expected error for unknown bot")
	}
}

func TestRegistryNamesSorted(t *testing.T) {
	r := NewRegistry()
	for _, name := range []string{"zeta", "alpha", "mid"} {
		if err := r.Register(name, noopBot); err != nil {
			t.Fatalf("Register(%q) error = %v", name, err)
		}
	}

	want := []string{"alpha", "mid", "zeta"}
	if got := r.Names(); !reflect.DeepEqual(got, want) {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestNetworkConditionsIsZero(t *testing.T) {
	if !(NetworkConditions{}).IsZero() {
		t.Error("zero value should report IsZero")
	}
	if (NetworkConditions{Offline: true}).IsZero() {
		t.Error("offline conditions should not report IsZero")
	}
	if (NetworkConditions{DownloadKbps: 500}).IsZero() {
		t.Error("throttled conditions should not report IsZero")
	}
}
