package main

import (
	"testing"

	"github.com/urfave/cli/v2"
)

func TestApplicationDefinesAllSubcommands(t *testing.T) {
	app := application()

	want := map[string]bool{"build": false, "count": false, "locate": false, "breakdown": false}
	for _, cmd := range app.Commands {
		if _, ok := want[cmd.Name]; ok {
			want[cmd.Name] = true
		}
	}
	for name, found := range want {
		if !found {
			t.Errorf("application() is missing subcommand %q", name)
		}
	}
}

func TestBuildFlagsHaveExpectedDefaults(t *testing.T) {
	app := application()

	var build *cli.Command
	for _, cmd := range app.Commands {
		if cmd.Name == "build" {
			build = cmd
		}
	}
	if build == nil {
		t.Fatal("no build subcommand")
	}

	var sawS, sawI bool
	for _, f := range build.Flags {
		switch v := f.(type) {
		case *cli.IntFlag:
			if v.Name == "s" {
				sawS = true
				if v.Value != 1 {
					t.Errorf("-s default = %d, want 1", v.Value)
				}
			}
			if v.Name == "i" {
				sawI = true
				if v.Value != 0 {
					t.Errorf("-i default = %d, want 0", v.Value)
				}
			}
		}
	}
	if !sawS || !sawI {
		t.Error("build subcommand missing -s or -i flag")
	}
}
