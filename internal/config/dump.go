package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// ErrConfigExists is returned when writing over an existing configuration
// without permission to overwrite.
var ErrConfigExists = errors.New("configuration already exists")

// WriteFile writes opt as yaml to outputPath, creating its directory.
func WriteFile(opt MotionSrvOpt, outputPath string, overwrite bool) error {
	buffer, err := opt.Dump()
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	parentPath := path.Dir(outputPath)
	if err := os.MkdirAll(parentPath, 0700); err != nil {
		return fmt.Errorf("create %s: %w", parentPath, err)
	}

	flags := os.O_CREATE | os.O_WRONLY | os.O_TRUNC
	if !overwrite {
		flags |= os.O_EXCL
	}
	f, err := os.OpenFile(outputPath, flags, 0600)
	if errors.Is(err, os.ErrExist) {
		return fmt.Errorf("%w: %s (use --yes to overwrite)", ErrConfigExists, outputPath)
	}
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	log.Infoln("writing configuration to", outputPath)
	if _, err := f.Write(buffer); err != nil {
		return fmt.Errorf("write %s: %w", outputPath, err)
	}
	return f.Close()
}

// InitCfg writes or prints a configuration template built from the
// usual config sources.
func InitCfg(cmd *cobra.Command, _ []string) error {
	printFlag, _ := cmd.Flags().GetBool("print")
	outputPath, _ := cmd.Flags().GetString("output")
	overwriteFlag, _ := cmd.Flags().GetBool("yes")

	desc := NewMotionSrvDesc()
	if err := desc.Parse(cmd); err != nil {
		log.Errorln(err)
		return err
	}

	if printFlag {
		return printOpt(cmd.OutOrStdout(), desc.Opt)
	}
	return WriteFile(desc.Opt, outputPath, overwriteFlag)
}

func printOpt(w io.Writer, opt MotionSrvOpt) error {
	buffer, err := opt.Dump()
	if err != nil {
		return err
	}
	_, err = w.Write(buffer)
	return err
}
