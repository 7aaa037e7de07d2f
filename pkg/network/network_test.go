package network

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"proxyforge-hq/proxyforge/pkg/config"
)

type fakeProber struct {
	exists    bool
	existsErr error
	createErr error
	created   []string
}

func (f *fakeProber) Exists(ctx context.Context, name string) (bool, error) {
	return f.exists, f.existsErr
}

func (f *fakeProber) Create(ctx context.Context, name string) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.created = append(f.created, name)
	f.exists = true
	return nil
}

func TestEnsure(t *testing.T) {
	tests := []struct {
		name        string
		prober      *fakeProber
		wantCreated bool
		wantErr     bool
	}{
		{name: "absent network is created", prober: &fakeProber{}, wantCreated: true},
		{name: "present network is kept", prober: &fakeProber{exists: true}},
		{name: "inspect failure", prober: &fakeProber{existsErr: errors.New("daemon down")}, wantErr: true},
		{name: "create failure", prober: &fakeProber{createErr: errors.New("permission denied")}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			created, err := Ensure(context.Background(), tt.prober, "proxy-network")
			if (err != nil) != tt.wantErr {
				t.Fatalf("Ensure() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, config.ErrResourceUnavailable) {
				t.Errorf("Ensure() error = %v, want ErrResourceUnavailable", err)
			}
			if created != tt.wantCreated {
				t.Errorf("Ensure() created = %v, want %v", created, tt.wantCreated)
			}
		})
	}
}

func TestEnsure_Idempotent(t *testing.T) {
	p := &fakeProber{}
	for i := 0; i < 3; i++ {
		if _, err := Ensure(context.Background(), p, "proxy-network"); err != nil {
			t.Fatalf("Ensure() error = %v", err)
		}
	}
	if len(p.created) != 1 {
		t.Errorf("created = %v, want a single creation", p.created)
	}
}

// exitError produces a real *exec.ExitError.
func exitError(t *testing.T) error {
	t.Helper()
	err := exec.Command("sh", "-c", "exit 1").Run()
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		t.Skipf("cannot produce an exit error: %v", err)
	}
	return err
}

func TestDockerProber(t *testing.T) {
	t.Run("inspect success", func(t *testing.T) {
		var got []string
		p := NewDockerProber("", func(ctx context.Context, name string, args ...string) ([]byte, error) {
			got = append([]string{name}, args...)
			return []byte("proxy-network\n"), nil
		})

		exists, err := p.Exists(context.Background(), "proxy-network")
		if err != nil || !exists {
			t.Fatalf("Exists() = %v, %v, want true, nil", exists, err)
		}
		if strings.Join(got, " ") != "docker network inspect --format {{.Name}} proxy-network" {
			t.Errorf("command = %v", got)
		}
	})

	t.Run("unknown network", func(t *testing.T) {
		exit := exitError(t)
		p := NewDockerProber("docker", func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return []byte("Error response from daemon: network proxy-network not found\n"), exit
		})

		exists, err := p.Exists(context.Background(), "proxy-network")
		if err != nil || exists {
			t.Errorf("Exists() = %v, %v, want false, nil", exists, err)
		}
	})

	t.Run("daemon unreachable", func(t *testing.T) {
		exit := exitError(t)
		p := NewDockerProber("docker", func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return []byte("Cannot connect to the Docker daemon\n"), exit
		})

		_, err := p.Exists(context.Background(), "proxy-network")
		if err == nil || !strings.Contains(err.Error(), "Cannot connect") {
			t.Errorf("Exists() error = %v, want daemon error", err)
		}
	})

	t.Run("missing binary", func(t *testing.T) {
		p := NewDockerProber("docker", func(ctx context.Context, name string, args ...string) ([]byte, error) {
			return nil, exec.ErrNotFound
		})

		if _, err := p.Exists(context.Background(), "proxy-network"); !errors.Is(err, exec.ErrNotFound) {
			t.Errorf("Exists() error = %v, want exec.ErrNotFound", err)
		}
	})

	t.Run("create", func(t *testing.T) {
		var got []string
		p := NewDockerProber("podman", func(ctx context.Context, name string, args ...string) ([]byte, error) {
			got = append([]string{name}, args...)
			return nil, nil
		})

		if err := p.Create(context.Background(), "edge"); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if strings.Join(got, " ") != "podman network create edge" {
			t.Errorf("command = %v", got)
		}
	})
}
