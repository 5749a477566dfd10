package main

import (
	"fmt"
	"os"

	gobcodec "github.com/coilscript/coil/internal/gob"
	"github.com/coilscript/coil/natives"
	"github.com/coilscript/coil/registry"
	"github.com/coilscript/coil/runtime"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <file.coil>",
	Short: "Execute a precompiled code unit",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func runRun(cmd *cobra.Command, args []string) error {
	stopProfile := startCPUProfile()
	defer stopProfile()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	unit, err := gobcodec.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", args[0], err)
	}

	reg := registry.New()
	natives.RegisterAll(reg)
	reg.Seal()

	log := logger()
	dispatcher := runtime.New(reg, runtime.WithLogger(log))

	result, err := dispatcher.Run(unit)
	if err != nil {
		fmt.Fprintln(os.Stderr, red("%s", err))
		os.Exit(1)
	}
	fmt.Println(result.Inspect())
	return nil
}
