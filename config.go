package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

type Config struct {
	adminSecret      string
	allowLateJoin    bool
	bind             string
	maxPlayers       int
	nameLimit        int
	port             int
	prefix           string
	profile          bool
	questionDuration time.Duration
	questionsFile    string
	quorumAdvance    bool
	resultDuration   time.Duration
	roomTTL          time.Duration
	scoreBase        int
	scoreBonus       int
	sweepInterval    time.Duration
	tlsCert          string
	tlsKey           string
	verbose          bool
	version          bool
}

func (c *Config) validate() error {
	if (c.tlsCert == "") != (c.tlsKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.port < 1 || c.port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.port)
	}
	if c.adminSecret == "" {
		return errors.New("an admin secret must be provided via --admin-secret or QUIZBOX_ADMIN_SECRET")
	}
	if c.maxPlayers < 1 {
		return fmt.Errorf("invalid max player count: %d", c.maxPlayers)
	}
	if c.nameLimit < 1 {
		return fmt.Errorf("invalid name length limit: %d", c.nameLimit)
	}
	if c.questionDuration <= 0 {
		return fmt.Errorf("invalid question duration: %s", c.questionDuration)
	}
	if c.resultDuration < 0 {
		return fmt.Errorf("invalid result display duration: %s", c.resultDuration)
	}
	if c.scoreBase < 0 || c.scoreBonus < 0 {
		return fmt.Errorf("invalid scoring constants: base %d, bonus %d", c.scoreBase, c.scoreBonus)
	}
	if c.roomTTL > 0 && c.sweepInterval <= 0 {
		return fmt.Errorf("invalid sweep interval: %s", c.sweepInterval)
	}
	return nil
}

func (c *Config) scheme() string {
	if c.tlsCert != "" && c.tlsKey != "" {
		return "https"
	}
	return "http"
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("QUIZBOX")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "quizbox",
		Short:         "A real-time multiple-choice trivia server with host-driven rooms.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			return ServePage(cmd.Context(), cfg, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVar(&cfg.adminSecret, "admin-secret", "", "shared secret required to host a game (env: QUIZBOX_ADMIN_SECRET)")
	fs.BoolVar(&cfg.allowLateJoin, "allow-late-join", false, "allow players to register after the game has started (env: QUIZBOX_ALLOW_LATE_JOIN)")
	fs.StringVarP(&cfg.bind, "bind", "b", "0.0.0.0", "address to bind to (env: QUIZBOX_BIND)")
	fs.IntVar(&cfg.maxPlayers, "max-players", 250, "maximum players per room (env: QUIZBOX_MAX_PLAYERS)")
	fs.IntVar(&cfg.nameLimit, "name-limit", 24, "maximum player name length (env: QUIZBOX_NAME_LIMIT)")
	fs.IntVarP(&cfg.port, "port", "p", 8080, "port to listen on (env: QUIZBOX_PORT)")
	fs.StringVar(&cfg.prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: QUIZBOX_PREFIX)")
	fs.BoolVar(&cfg.profile, "profile", false, "register net/http/pprof handlers (env: QUIZBOX_PROFILE)")
	fs.DurationVar(&cfg.questionDuration, "question-duration", 10*time.Second, "time players have to answer each question (env: QUIZBOX_QUESTION_DURATION)")
	fs.StringVar(&cfg.questionsFile, "questions", "", "path to a JSON question bank, overriding the embedded one (env: QUIZBOX_QUESTIONS)")
	fs.BoolVar(&cfg.quorumAdvance, "quorum-advance", true, "advance early once half the players have answered (env: QUIZBOX_QUORUM_ADVANCE)")
	fs.DurationVar(&cfg.resultDuration, "result-duration", 3*time.Second, "time results are shown before the next question (env: QUIZBOX_RESULT_DURATION)")
	fs.DurationVar(&cfg.roomTTL, "room-ttl", 2*time.Hour, "time before rooms are swept, and the window for room reuse (env: QUIZBOX_ROOM_TTL)")
	fs.IntVar(&cfg.scoreBase, "score-base", 10, "points awarded for a correct answer (env: QUIZBOX_SCORE_BASE)")
	fs.IntVar(&cfg.scoreBonus, "score-bonus", 5, "maximum speed bonus on top of the base award (env: QUIZBOX_SCORE_BONUS)")
	fs.DurationVar(&cfg.sweepInterval, "sweep-interval", time.Hour, "how often expired rooms are swept (env: QUIZBOX_SWEEP_INTERVAL)")
	fs.StringVar(&cfg.tlsCert, "tls-cert", "", "path to tls certificate (env: QUIZBOX_TLS_CERT)")
	fs.StringVar(&cfg.tlsKey, "tls-key", "", "path to tls keyfile (env: QUIZBOX_TLS_KEY)")
	fs.BoolVarP(&cfg.verbose, "verbose", "v", false, "display additional output (env: QUIZBOX_VERBOSE)")
	fs.BoolVarP(&cfg.version, "version", "V", false, "display version and exit (env: QUIZBOX_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("quizbox v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}
