/*
   Machine configuration: the handful of settings main.go gathers from the
   command line before constructing a core.Machine.

   Copyright (c) 2024, Richard Cornwell

   Permission is hereby granted, free of charge, to any person obtaining a
   copy of this software and associated documentation files (the "Software"),
   to deal in the Software without restriction, including without limitation
   the rights to use, copy, modify, merge, publish, distribute, sublicense,
   and/or sell copies of the Software, and to permit persons to whom the
   Software is furnished to do so, subject to the following conditions:

   The above copyright notice and this permission notice shall be included in
   all copies or substantial portions of the Software.

   THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
   IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
   FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT.  IN NO EVENT SHALL
   ROBERT M SUPNIK BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY, WHETHER
   IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM, OUT OF OR IN
   CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE SOFTWARE.
*/

// Package config gathers the settings a run of the emulator needs: the BIOS
// image to boot, optionally a side-loaded executable or disc image, and
// where logging/tracing output should go. The teacher's configparser reads
// an IBM channel-device DSL from a file (model, address, per-model options);
// a PSX machine has no such device roster, so this package is a plain
// option-record instead of a parser, keeping only the Option naming
// convention from the teacher.
package config

import (
	"errors"
	"os"
)

// Config holds one run's settings.
type Config struct {
	BIOSPath  string
	ExePath   string
	DiscPath  string
	LogPath   string
	TracePath string
	Debug     bool
	RAMSize   int
}

// Option configures a Config at construction time.
type Option func(*Config)

// WithExe arms a side-loaded executable to splice in at the BIOS-to-game
// handoff.
func WithExe(path string) Option {
	return func(c *Config) { c.ExePath = path }
}

// WithDisc inserts a disc image into the CD-ROM drive at startup.
func WithDisc(path string) Option {
	return func(c *Config) { c.DiscPath = path }
}

// WithLog writes logs to path instead of stderr only.
func WithLog(path string) Option {
	return func(c *Config) { c.LogPath = path }
}

// WithTrace enables a per-step instruction trace written to path.
func WithTrace(path string) Option {
	return func(c *Config) { c.TracePath = path }
}

// WithDebug enables debug-level logging to stderr in addition to the log
// file.
func WithDebug(debug bool) Option {
	return func(c *Config) { c.Debug = debug }
}

// WithRAMSize overrides the default 2 MiB RAM size.
func WithRAMSize(bytes int) Option {
	return func(c *Config) { c.RAMSize = bytes }
}

// New builds a Config for the given BIOS image path, applying opts over the
// defaults.
func New(biosPath string, opts ...Option) *Config {
	c := &Config{BIOSPath: biosPath}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Validate checks that the paths a run actually needs are present on disk.
// BIOSPath is always required; ExePath/DiscPath are checked only when set.
func (c *Config) Validate() error {
	if c.BIOSPath == "" {
		return errors.New("config: a BIOS image path is required")
	}
	if _, err := os.Stat(c.BIOSPath); err != nil {
		return err
	}
	if c.ExePath != "" {
		if _, err := os.Stat(c.ExePath); err != nil {
			return err
		}
	}
	if c.DiscPath != "" {
		if _, err := os.Stat(c.DiscPath); err != nil {
			return err
		}
	}
	return nil
}
