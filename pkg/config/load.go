package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/knadh/koanf/parsers/dotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// keyDelim is the koanf path delimiter. Environment keys never contain it,
// so every key stays a single flat entry.
const keyDelim = "\x00"

// LoadEnvironment collects the flat key-value namespace for one run.
//
// Values are layered, lowest precedence first:
//  1. the dotenv file at envFile, when envFile is non-empty and the file exists
//  2. the process environment
//
// A missing envFile is not an error; an unreadable or malformed one is.
func LoadEnvironment(envFile string) (MapSource, error) {
	k := koanf.New(keyDelim)

	if envFile != "" {
		if _, err := os.Stat(envFile); err == nil {
			if err := k.Load(file.Provider(envFile), dotenv.Parser()); err != nil {
				return nil, fmt.Errorf("failed to load env file %q: %w", envFile, err)
			}
		} else if !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to stat env file %q: %w", envFile, err)
		}
	}

	if err := k.Load(env.Provider("", keyDelim, nil), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	return toSource(k), nil
}

// LoadFile reads only the dotenv file at path, ignoring the process
// environment. The file must exist.
func LoadFile(path string) (MapSource, error) {
	k := koanf.New(keyDelim)
	if err := k.Load(file.Provider(path), dotenv.Parser()); err != nil {
		return nil, fmt.Errorf("failed to load env file %q: %w", path, err)
	}
	return toSource(k), nil
}

func toSource(k *koanf.Koanf) MapSource {
	src := make(MapSource, len(k.Keys()))
	for _, key := range k.Keys() {
		src[key] = k.String(key)
	}
	return src
}
