package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"treasurecove/internal/application/orchestrators"
	"treasurecove/internal/application/projections"
	"treasurecove/internal/config"
	"treasurecove/internal/logging"
)

// Version is set at build time via -ldflags.
var Version = "dev"

// Environment fallbacks for the login flags.
const (
	envUsername = "TREASURECOVE_USERNAME"
	envPassword = "TREASURECOVE_PASSWORD"
)

var errNoPassword = errors.New("password required: pass --password, set " + envPassword + " or run from a terminal")

type app struct {
	configPath string
	username   string
	password   string
	yes        bool
	output     string
	stdin      *bufio.Reader
	stdinFile  *os.File
	stdout     io.Writer
	stderr     io.Writer
}

// session is what a command body sees once the operator is logged in.
type session struct {
	ctx     context.Context
	runtime *Runtime
	orch    orchestrators.Deps
	proj    projections.Deps
}

func NewRootCommand() *cobra.Command {
	return newRootCommand(os.Stdin, os.Stdout, os.Stderr)
}

func NewRootCommandWithIO(in io.Reader, out, errOut io.Writer) *cobra.Command {
	return newRootCommand(in, out, errOut)
}

func newRootCommand(in io.Reader, out, errOut io.Writer) *cobra.Command {
	a := &app{
		stdin:  bufio.NewReader(in),
		stdout: out,
		stderr: errOut,
	}
	if f, ok := in.(*os.File); ok {
		a.stdinFile = f
	}

	cmd := &cobra.Command{
		Use:           "treasurecove",
		Short:         "Lifeguard audit administration",
		Long:          "treasurecove records lifeguard audits, manages the lifeguard roster and staff accounts, and reports monthly performance.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       Version,
	}

	cmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file")
	cmd.PersistentFlags().StringVarP(&a.username, "username", "u", "", "login username (or "+envUsername+")")
	cmd.PersistentFlags().StringVarP(&a.password, "password", "p", "", "login password (or "+envPassword+")")
	cmd.PersistentFlags().BoolVarP(&a.yes, "yes", "y", false, "answer yes to confirmation prompts")
	cmd.PersistentFlags().StringVarP(&a.output, "output", "o", outputTable, "output format: table|json")

	cmd.PersistentPreRunE = func(cmd *cobra.Command, _ []string) error {
		switch a.output {
		case outputTable, outputJSON:
			return nil
		default:
			return fmt.Errorf("invalid --output %q (expected table or json)", a.output)
		}
	}

	cmd.AddCommand(
		newDashboardCmd(a),
		newWhoamiCmd(a),
		newLifeguardsCmd(a),
		newAuditsCmd(a),
		newUsersCmd(a),
		newActivityCmd(a),
		newExportCmd(a),
		newMetricsCmd(a),
		newVersionCmd(),
	)
	return cmd
}

// withSession loads config, opens the store, logs in, runs fn and logs out.
// PRE: Credentials come from flags, the environment or a terminal prompt
// POST: The store is closed and the session is ended, whatever fn returns
func (a *app) withSession(ctx context.Context, fn func(s *session) error) (err error) {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	closer, err := logging.Setup(cfg.Log, a.stderr)
	if err != nil {
		return err
	}
	defer closer.Close()

	notifier, err := BuildNotifier(cfg.Notify, a.stderr)
	if err != nil {
		return err
	}
	rt, err := OpenRuntime(ctx, cfg, notifier)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := rt.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}()

	username, password, err := a.credentials()
	if err != nil {
		return err
	}
	s := &session{
		ctx:     ctx,
		runtime: rt,
		orch:    orchestrators.Deps{Workspace: rt.Workspace, Confirm: a.confirm},
		proj:    projections.Deps{Workspace: rt.Workspace},
	}
	if _, err := orchestrators.ExecuteLogin(ctx, orchestrators.LoginInput{Username: username, Password: password}, s.orch); err != nil {
		return err
	}
	defer orchestrators.ExecuteLogout(ctx, s.orch)
	return fn(s)
}

func (a *app) credentials() (string, string, error) {
	username := firstNonEmpty(a.username, os.Getenv(envUsername))
	password := firstNonEmpty(a.password, os.Getenv(envPassword))
	if username == "" {
		fmt.Fprint(a.stderr, "Username: ")
		line, _ := a.stdin.ReadString('\n')
		username = strings.TrimSpace(line)
	}
	if password == "" {
		if a.stdinFile == nil || !term.IsTerminal(int(a.stdinFile.Fd())) {
			return "", "", errNoPassword
		}
		fmt.Fprint(a.stderr, "Password: ")
		raw, err := term.ReadPassword(int(a.stdinFile.Fd()))
		fmt.Fprintln(a.stderr)
		if err != nil {
			return "", "", fmt.Errorf("read password: %w", err)
		}
		password = string(raw)
	}
	return username, password, nil
}

// confirm answers the orchestrators' yes/no questions.
func (a *app) confirm(_ context.Context, prompt string) bool {
	if a.yes {
		return true
	}
	fmt.Fprintf(a.stderr, "%s [y/N]: ", prompt)
	return readYesNo(a.stdin)
}

func readYesNo(r *bufio.Reader) bool {
	line, _ := r.ReadString('\n')
	ans := strings.ToLower(strings.TrimSpace(line))
	return ans == "y" || ans == "yes"
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "treasurecove %s\n", Version)
			return err
		},
	}
}
