package policy

import (
	"path"

	"proxyforge-hq/proxyforge/pkg/config"
)

// Standard stream targets used in stdout log mode.
const (
	StdoutPath = "/dev/stdout"
	StderrPath = "/dev/stderr"

	// discardPath receives the error log when it is switched off; nginx has
	// no "error_log off".
	discardPath = "/dev/null"

	// AccessLogFormat is the log_format name declared in nginx.conf.
	AccessLogFormat = "main"
)

// TargetKind says where a log directive writes.
type TargetKind int

const (
	// TargetFile writes to a file on the bind-mounted log directory.
	TargetFile TargetKind = iota
	// TargetStream writes to the container's stdout or stderr.
	TargetStream
	// TargetOff disables the log.
	TargetOff
)

// String returns the kind name.
func (k TargetKind) String() string {
	switch k {
	case TargetFile:
		return "file"
	case TargetStream:
		return "stream"
	case TargetOff:
		return "off"
	default:
		return "unknown"
	}
}

// LogTarget is the concrete destination of one log directive.
type LogTarget struct {
	Kind TargetKind

	// Path is the file or stream device. Empty for TargetOff access logs.
	Path string
}

// Dir returns the directory that must exist for a file target, or "".
func (t LogTarget) Dir() string {
	if t.Kind != TargetFile {
		return ""
	}
	return path.Dir(t.Path)
}

// AccessLog is an access_log directive.
type AccessLog struct {
	Target LogTarget
	Format string
}

// Directive renders the directive without indentation.
func (a AccessLog) Directive() string {
	if a.Target.Kind == TargetOff {
		return "access_log off;"
	}
	return "access_log " + a.Target.Path + " " + a.Format + ";"
}

// ErrorLog is an error_log directive.
type ErrorLog struct {
	Target LogTarget
	Level  string
}

// Directive renders the directive without indentation.
func (e ErrorLog) Directive() string {
	return "error_log " + e.Target.Path + " " + e.Level + ";"
}

// LoggingPolicy is the resolved logging for one scope. A nil directive is
// not rendered at all, so the scope inherits the enclosing one.
type LoggingPolicy struct {
	Access *AccessLog
	Error  *ErrorLog
}

// Directories returns the directories the file targets live in, access first.
func (p LoggingPolicy) Directories() []string {
	var dirs []string
	if p.Access != nil {
		if d := p.Access.Target.Dir(); d != "" {
			dirs = append(dirs, d)
		}
	}
	if p.Error != nil {
		if d := p.Error.Target.Dir(); d != "" && (len(dirs) == 0 || dirs[0] != d) {
			dirs = append(dirs, d)
		}
	}
	return dirs
}

// GlobalLogging resolves the http-level logging declared in nginx.conf.
// Disabled toggles render explicit "off" directives so the nginx image's
// built-in defaults never apply.
func GlobalLogging(cfg *config.Config) LoggingPolicy {
	var p LoggingPolicy

	if cfg.Logging.AccessLog {
		p.Access = &AccessLog{
			Target: target(cfg, cfg.Logging.Path, "access.log", StdoutPath),
			Format: AccessLogFormat,
		}
	} else {
		p.Access = &AccessLog{Target: LogTarget{Kind: TargetOff}}
	}

	if cfg.Logging.ErrorLog {
		p.Error = &ErrorLog{
			Target: target(cfg, cfg.Logging.Path, "error.log", StderrPath),
			Level:  cfg.Logging.Level,
		}
	} else {
		p.Error = &ErrorLog{
			Target: LogTarget{Kind: TargetOff, Path: discardPath},
			Level:  "crit",
		}
	}

	return p
}

// ResolveLogging resolves the service-level logging of svc.
//
// In file mode a service writes <dir>/<name>.access.log and
// <dir>/<name>.error.log, where dir is the service's own log path or the
// global log base path. In stdout mode every enabled target is a standard
// stream and any configured path is ignored.
func ResolveLogging(svc config.Service, cfg *config.Config) LoggingPolicy {
	var p LoggingPolicy

	dir := cfg.Logging.Path
	if svc.LogPath != "" {
		dir = svc.LogPath
	}

	if svc.AccessLog {
		p.Access = &AccessLog{
			Target: target(cfg, dir, svc.Name+".access.log", StdoutPath),
			Format: AccessLogFormat,
		}
	}
	if svc.ErrorLog {
		p.Error = &ErrorLog{
			Target: target(cfg, dir, svc.Name+".error.log", StderrPath),
			Level:  cfg.Logging.Level,
		}
	}

	return p
}

func target(cfg *config.Config, dir, file, stream string) LogTarget {
	if !cfg.FileLogging() {
		return LogTarget{Kind: TargetStream, Path: stream}
	}
	return LogTarget{Kind: TargetFile, Path: path.Join(dir, file)}
}
