package policy

import (
	"strings"
	"testing"

	"proxyforge-hq/proxyforge/pkg/config/configtest"
)

func TestResolveLogging_FileMode(t *testing.T) {
	cfg := configtest.NewEnv().
		Set("LOG_PATH", "/var/log/proxy").
		AddService(configtest.ServiceSpec{Name: "api", Domain: "api.example.com", Port: 8080, AccessLog: true, ErrorLog: true}).
		AddService(configtest.ServiceSpec{Name: "web", Domain: "www.example.com", Port: 3000, AccessLog: true, LogPath: "/srv/logs/web"}).
		Build(t)

	api := ResolveLogging(cfg.Services[0], cfg)
	if api.Access == nil || api.Access.Directive() != "access_log /var/log/proxy/api.access.log main;" {
		t.Errorf("api access = %+v", api.Access)
	}
	if api.Error == nil || api.Error.Directive() != "error_log /var/log/proxy/api.error.log warn;" {
		t.Errorf("api error = %+v", api.Error)
	}

	web := ResolveLogging(cfg.Services[1], cfg)
	if web.Access == nil || web.Access.Target.Path != "/srv/logs/web/web.access.log" {
		t.Errorf("web access = %+v", web.Access)
	}
	if web.Error != nil {
		t.Errorf("web error log should not be rendered, got %+v", web.Error)
	}
	if dirs := web.Directories(); len(dirs) != 1 || dirs[0] != "/srv/logs/web" {
		t.Errorf("Directories() = %v, want [/srv/logs/web]", dirs)
	}
}

func TestResolveLogging_StdoutModeIgnoresPaths(t *testing.T) {
	cfg := configtest.NewEnv().
		WithStdoutLogging().
		AddService(configtest.ServiceSpec{Name: "svc", Domain: "svc.example.com", Port: 80, AccessLog: true, ErrorLog: true, LogPath: "/var/log/svc"}).
		Build(t)

	p := ResolveLogging(cfg.Services[0], cfg)
	if p.Access.Target.Kind != TargetStream || p.Access.Target.Path != StdoutPath {
		t.Errorf("access target = %+v, want stdout stream", p.Access.Target)
	}
	if p.Error.Target.Kind != TargetStream || p.Error.Target.Path != StderrPath {
		t.Errorf("error target = %+v, want stderr stream", p.Error.Target)
	}
	for _, line := range []string{p.Access.Directive(), p.Error.Directive()} {
		if strings.Contains(line, "/var/log/svc") {
			t.Errorf("directive %q references the service file path", line)
		}
	}
	if dirs := p.Directories(); len(dirs) != 0 {
		t.Errorf("Directories() = %v, want none", dirs)
	}
}

func TestGlobalLogging(t *testing.T) {
	tests := []struct {
		name       string
		env        *configtest.Env
		wantAccess string
		wantError  string
	}{
		{
			name:       "file mode",
			env:        configtest.NewEnv(),
			wantAccess: "access_log /var/log/nginx/access.log main;",
			wantError:  "error_log /var/log/nginx/error.log warn;",
		},
		{
			name:       "stdout mode",
			env:        configtest.NewEnv().WithStdoutLogging().Set("LOG_LEVEL", "info"),
			wantAccess: "access_log /dev/stdout main;",
			wantError:  "error_log /dev/stderr info;",
		},
		{
			name:       "both disabled",
			env:        configtest.NewEnv().Set("ACCESS_LOG_ENABLED", "false").Set("ERROR_LOG_ENABLED", "false"),
			wantAccess: "access_log off;",
			wantError:  "error_log /dev/null crit;",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := GlobalLogging(tt.env.Build(t))
			if got := p.Access.Directive(); got != tt.wantAccess {
				t.Errorf("access = %q, want %q", got, tt.wantAccess)
			}
			if got := p.Error.Directive(); got != tt.wantError {
				t.Errorf("error = %q, want %q", got, tt.wantError)
			}
		})
	}
}

func TestLogDirectories(t *testing.T) {
	cfg := configtest.NewEnv().
		AddService(configtest.ServiceSpec{Name: "a", Path: "/a", Port: 1, AccessLog: true}).
		AddService(configtest.ServiceSpec{Name: "b", Path: "/b", Port: 2, ErrorLog: true, LogPath: "/srv/b"}).
		AddService(configtest.ServiceSpec{Name: "c", Path: "/c", Port: 3, AccessLog: true, LogPath: "/srv/b"}).
		Build(t)

	got := LogDirectories(cfg, Resolve(cfg))
	want := []string{"/var/log/nginx", "/srv/b"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Errorf("LogDirectories() = %v, want %v", got, want)
	}

	stdout := configtest.NewEnv().WithStdoutLogging().
		AddService(configtest.ServiceSpec{Name: "a", Path: "/a", Port: 1, AccessLog: true, LogPath: "/srv/a"}).
		Build(t)
	if dirs := LogDirectories(stdout, Resolve(stdout)); len(dirs) != 0 {
		t.Errorf("stdout LogDirectories() = %v, want none", dirs)
	}
}
