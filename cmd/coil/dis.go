package main

import (
	"fmt"
	"os"

	gobcodec "github.com/coilscript/coil/internal/gob"
	"github.com/spf13/cobra"
)

var disCmd = &cobra.Command{
	Use:   "dis <file.coil>",
	Short: "Disassemble a precompiled code unit to stdout",
	Args:  cobra.ExactArgs(1),
	RunE:  runDis,
}

func runDis(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}
	unit, err := gobcodec.Unmarshal(data)
	if err != nil {
		return fmt.Errorf("decoding %s: %w", args[0], err)
	}
	for i := 0; i < unit.Len(); i++ {
		c, _ := unit.At(i)
		switch {
		case c.Request.Keyword != 0:
			fmt.Printf("%4d  %s\n", i, c.Request.Keyword)
		case c.Request.ID != "":
			fmt.Printf("%4d  call %s.%s\n", i, c.Request.Domain, c.Request.ID)
		default:
			fmt.Printf("%4d  <null>\n", i)
		}
	}
	return nil
}
