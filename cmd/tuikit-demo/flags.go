package main

import (
	"flag"
	"fmt"
	"strings"
)

// demoArgs captures flags for the demo entrypoint.
type demoArgs struct {
	cfgPath         string
	filePath        string
	writeEnable     bool
	multiline       bool
	statePath       string
	configOverrides stringSlice
}

func newDemoFlagSet(name string) (*flag.FlagSet, *demoArgs) {
	fs := flag.NewFlagSet(name, flag.ExitOnError)
	args := &demoArgs{}

	fs.StringVar(&args.cfgPath, "config", "", "Path to config file (default ~/.tuikit/config.toml)")
	fs.StringVar(&args.filePath, "file", "", "File to open in the buffer pane (defaults to a sample region)")
	fs.BoolVar(&args.writeEnable, "write", false, "Open the buffer pane write-enabled and save edits back on exit")
	fs.BoolVar(&args.multiline, "multiline", false, "Allow multi-row input in the prompt")
	fs.StringVar(&args.statePath, "state", "", "Path for persisted prompt history (default ~/.tuikit/history.state)")
	fs.Var(&args.configOverrides, "c", "Override config value key=value (repeatable)")

	return fs, args
}

// stringSlice 可重复出现的 flag 值。
type stringSlice []string

func (s *stringSlice) String() string {
	return strings.Join(*s, ",")
}

func (s *stringSlice) Set(v string) error {
	if strings.TrimSpace(v) == "" {
		return fmt.Errorf("empty value")
	}
	*s = append(*s, v)
	return nil
}
