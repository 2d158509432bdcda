package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/ifatinha/ghost-following/backend/internal/export"
	"github.com/ifatinha/ghost-following/backend/internal/ghost"
	"github.com/ifatinha/ghost-following/backend/internal/github"
	"github.com/ifatinha/ghost-following/backend/pkg/config"
	"github.com/ifatinha/ghost-following/backend/pkg/logger"
)

type options struct {
	token    string
	output   string
	noExport bool
	verbose  bool

	// readSecret prompts for the token without echo; nil disables the prompt
	readSecret func(out io.Writer) (string, error)
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:   "ghost-following [username]",
		Short: "List GitHub accounts you follow that don't follow you back",
		Long: `ghost-following compares a GitHub user's followers with the accounts
they follow and prints the ones that don't follow back.

The token is taken from --token, then GITHUB_TOKEN (a .env file is loaded
if present), then an interactive prompt. Without a token the GitHub API
allows 60 requests per hour.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.readSecret == nil {
				opts.readSecret = terminalSecret(cmd.InOrStdin())
			}
			return run(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.token, "token", "t", "", "GitHub personal access token")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "CSV export path (default from GHOST_CSV_PATH)")
	cmd.Flags().BoolVar(&opts.noExport, "no-export", false, "Skip writing the CSV file")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log requests to stderr")

	return cmd
}

func run(cmd *cobra.Command, args []string, opts *options) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log := zap.NewNop()
	if opts.verbose {
		if log, err = logger.New(cfg.Env); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer func() { _ = log.Sync() }()
	}

	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "👻 Ghost Following - Descubra quem não te segue de volta no GitHub")
	fmt.Fprintln(out)

	token, err := resolveToken(opts, cfg.GitHubToken, out)
	if err != nil {
		return err
	}

	var username string
	if len(args) == 1 {
		username = args[0]
	} else if username, err = prompt(in, out, "Digite seu nome de usuário do GitHub: "); err != nil {
		return err
	}

	client := github.NewClient(cfg.GitHubAPIURL, token,
		github.WithTimeout(cfg.RequestTimeout),
		github.WithLogger(log),
	)
	service := ghost.NewService(client, log)

	fmt.Fprintln(out, "🔎 Buscando seguidores e usuários seguidos...")
	ghosts, err := service.GhostFollowing(cmd.Context(), username)
	if err != nil {
		return err
	}

	usernames := ghosts.Sorted()
	printResult(out, usernames)

	if len(usernames) == 0 || opts.noExport {
		return nil
	}

	path := opts.output
	if path == "" {
		path = cfg.CSVPath
	}
	if err := export.NewExporter(path, log).Export(usernames); err != nil {
		return err
	}
	fmt.Fprintf(out, "\n📁 Resultado exportado para: %s\n", path)
	return nil
}

// resolveToken picks the flag, then the configured value, then the prompt.
func resolveToken(opts *options, configured string, out io.Writer) (string, error) {
	if t := strings.TrimSpace(opts.token); t != "" {
		return t, nil
	}
	if configured != "" {
		return configured, nil
	}
	if opts.readSecret == nil {
		return "", nil
	}
	fmt.Fprint(out, "🔐 (Opcional) Cole seu token do GitHub [ou pressione Enter]: ")
	t, err := opts.readSecret(out)
	if err != nil {
		return "", fmt.Errorf("failed to read token: %w", err)
	}
	return strings.TrimSpace(t), nil
}

// terminalSecret returns a no-echo reader when in is a terminal, nil otherwise.
func terminalSecret(in io.Reader) func(io.Writer) (string, error) {
	f, ok := in.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return nil
	}
	return func(out io.Writer) (string, error) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		return string(b), err
	}
}

func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	fmt.Fprint(out, label)
	line, err := in.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

func printResult(out io.Writer, usernames []string) {
	fmt.Fprintln(out, "\n📋 Resultado:")
	if len(usernames) == 0 {
		fmt.Fprintln(out, "🎉 Todos os usuários que você segue também te seguem de volta!")
		return
	}
	fmt.Fprintln(out, "👥 Usuários que você segue mas que não te seguem de volta:")
	fmt.Fprintln(out)
	for _, u := range usernames {
		fmt.Fprintf(out, " - %s\n", u)
	}
}
