package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/XC-/motion/internal/app"
	"github.com/XC-/motion/internal/config"
)

var RootCmd = &cobra.Command{
	Use:   "motionsrv",
	Short: "BLE motion notification server",
	Long:  "motionsrv samples accelerometer and gyroscope axes and notifies them over a BLE GATT characteristic.",
}

func ServeCmdRunE(cmd *cobra.Command, _ []string) error {
	desc := config.NewMotionSrvDesc()
	if err := desc.Parse(cmd); err != nil {
		return err
	}
	desc.PostParse()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return app.Serve(ctx, &desc.Opt)
}

func ServeCmdFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "configuration path")
	cmd.Flags().StringP("name", "n", config.DefaultDeviceName, "advertised device name")
	cmd.Flags().String("driver", config.DefaultDriver, "sensor driver: synthetic or mpu9250")
	cmd.Flags().Bool("debug", false, "toggle debug logging")
}

var ServeCmd = &cobra.Command{
	Use: "serve",
	SuggestFor: []string{
		"ru", "ser",
	},
	Short: "serve starts advertising the motion service",
	Long: `serve starts advertising the motion service, reading its configuration in the following order:
1. path specified in --config flag
2. path defined in the MOTIONSRV_CONFIG environment variable
3. config.yaml in $HOME/.config/motionsrv, /etc/motionsrv or the current directory
Parameters in the configuration file are overridden by, in order:
1. command line arguments
2. MOTIONSRV_* environment variables (e.g. MOTIONSRV_MOTION_PERIOD_MS)
`,
	Example: `  motionsrv serve --config=/path/to/config.yaml
  motionsrv serve --driver mpu9250 --debug`,
	RunE: ServeCmdRunE,
}

func InitCmdFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "configuration to start from")
	cmd.Flags().Bool("print", false, "print config to stdout")
	cmd.Flags().BoolP("yes", "y", false, "overwrite")
	cmd.Flags().StringP("output", "o", config.DefaultConfig, "output path")
}

var InitCmd = &cobra.Command{
	Use: "init",
	SuggestFor: []string{
		"ini", "in",
	},
	Short: "init creates a configuration template",
	Long: `init creates a configuration template.
If --print is present, the configuration is printed to stdout.
Otherwise it is written to --output, $HOME/.config/motionsrv/config.yaml by default.
An existing file is only replaced with --yes.
`,
	Example: `  motionsrv init --print
  motionsrv init -o /etc/motionsrv/config.yaml -y`,
	RunE: config.InitCfg,
}

func getRootCmd() *cobra.Command {
	ServeCmdFlags(ServeCmd)
	RootCmd.AddCommand(ServeCmd)

	InitCmdFlags(InitCmd)
	RootCmd.AddCommand(InitCmd)

	return RootCmd
}

func Execute() {
	rootCmd := getRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalln(err)
	}
}
