package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/teslashibe/go-sway/internal/config"
	"github.com/teslashibe/go-sway/internal/log"
	"github.com/teslashibe/go-sway/pkg/clips"
	"github.com/teslashibe/go-sway/pkg/movement"
	"github.com/teslashibe/go-sway/pkg/protocol"
	"github.com/teslashibe/go-sway/pkg/remote"
	"github.com/teslashibe/go-sway/pkg/rig"
	"github.com/teslashibe/go-sway/pkg/sway"
	"github.com/teslashibe/go-sway/pkg/velocity"
	"github.com/teslashibe/go-sway/pkg/web"
)

type runOptions struct {
	configPath  string
	port        int
	fps         int
	demo        bool
	noDashboard bool
	noWatch     bool
	clipsDir    string
}

func newRunCmd() *cobra.Command {
	opts := runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the rig, sway controller, dashboard and input relay",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.fps <= 0 || opts.fps > 1000 {
				return fmt.Errorf("fps must be in 1..1000, got %d", opts.fps)
			}
			return runPipeline(cmd.Context(), opts, log.L())
		},
	}

	cmd.Flags().StringVarP(&opts.configPath, "config", "c", config.ConfigPath(""), "TOML config file (created with defaults if missing)")
	cmd.Flags().IntVarP(&opts.port, "port", "p", config.Port(0), "dashboard and relay port")
	cmd.Flags().IntVar(&opts.fps, "fps", 60, "simulation rate in frames per second")
	cmd.Flags().BoolVar(&opts.demo, "demo", false, "drive the rig with a scripted drag instead of remote input")
	cmd.Flags().BoolVar(&opts.noDashboard, "no-dashboard", false, "disable the HTTP dashboard and input relay")
	cmd.Flags().BoolVar(&opts.noWatch, "no-watch", false, "do not reload the config file on change")
	cmd.Flags().StringVar(&opts.clipsDir, "clips", "", "directory of extra JSON pose clips")
	return cmd
}

// pipeline is everything `sway run` drives, wired but not yet running.
type pipeline struct {
	log      *zap.Logger
	path     string
	skeleton *rig.Humanoid
	animator *rig.StateMachine
	ctrl     *sway.Controller
	manager  *movement.Manager
	relay    *remote.Relay
	dash     *web.Server
	watcher  *config.Watcher
	library  *clips.Registry
	rest     movement.Pose
}

func newPipeline(opts runOptions, logger *zap.Logger) (*pipeline, error) {
	path := config.ConfigPath(opts.configPath)
	cfg, created, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if created {
		logger.Info("wrote default config", zap.String("path", path))
	}

	p := &pipeline{
		log:      logger,
		path:     path,
		skeleton: rig.NewHumanoid(),
		library:  clips.NewRegistry(),
	}
	p.rest = movement.Capture(p.skeleton)
	if err := p.library.LoadBuiltIn(); err != nil {
		return nil, err
	}
	if opts.clipsDir != "" {
		if err := p.library.LoadDir(opts.clipsDir); err != nil {
			return nil, err
		}
	}
	p.animator = rig.NewStateMachine(1, p.skeleton)
	p.relay = remote.NewRelay(remote.WithLogger(logger.Named("relay")))

	var (
		window velocity.WindowProbe = p.relay
		layers []movement.Layer
	)
	if opts.demo {
		d := newDemoDrag(p.animator, cfg.Gate.DraggingParam)
		window = d
		layers = append(layers, d)
	}

	p.ctrl = sway.New(cfg,
		sway.WithAnimator(p.animator),
		sway.WithWindowProbe(window),
		sway.WithPointerProbe(p.relay),
		sway.WithLogger(logger.Named("sway")),
	)
	layers = append(layers, p.ctrl)

	rate := time.Second / time.Duration(opts.fps)
	p.manager = movement.NewManager(p.animator, rate,
		movement.WithLogger(logger.Named("movement")),
		movement.WithLayers(layers...),
		movement.OnFrame(p.publish),
	)
	p.manager.QueueMove(movement.NewBreathingMove(p.rest))

	p.relay.OnFlags(func(_ string, flags *protocol.FlagsData) {
		p.manager.Post(func() { p.applyFlags(flags) })
	})

	if !opts.noDashboard {
		p.dash = web.NewServer(config.ListenAddr(opts.port),
			web.WithLogger(logger.Named("web")),
			web.WithConfig(cfg),
			web.OnConfig(p.applyConfig),
			web.WithMoves(p),
			web.WithRoutes(func(app *fiber.App) {
				p.relay.RegisterRoutes(app)
				p.relay.RegisterAPIRoutes(app.Group("/api"))
			}),
		)
	}

	if !opts.noWatch {
		p.watcher = config.NewWatcher(path, func(c sway.Config) {
			p.applyConfig(c)
			if p.dash != nil {
				p.dash.SetConfig(c)
			}
		}, config.WithWatchLogger(logger.Named("config")))
	}
	return p, nil
}

// applyConfig hands cfg to the controller between frames.
func (p *pipeline) applyConfig(cfg sway.Config) {
	p.manager.Post(func() { p.ctrl.ApplyConfig(cfg) })
}

// applyFlags runs on the loop goroutine.
func (p *pipeline) applyFlags(flags *protocol.FlagsData) {
	gate := p.ctrl.Config().Gate
	if flags.Dragging != nil {
		p.animator.SetBool(gate.DraggingParam, *flags.Dragging)
	}
	if flags.Sitting != nil {
		p.animator.SetBool(gate.SittingParam, *flags.Sitting)
	}
	if flags.State != "" {
		p.animator.SetState(flags.Layer, flags.State)
	}
}

// List implements web.MovePlayer.
func (p *pipeline) List() []string {
	return p.library.List()
}

// Play implements web.MovePlayer. The clip replaces breathing until it
// completes.
func (p *pipeline) Play(name string) error {
	clip, err := p.library.Get(name)
	if err != nil {
		return err
	}
	p.manager.Post(func() { p.manager.QueueMove(clips.NewMove(clip, p.rest)) })
	return nil
}

// publish runs on the loop goroutine after every frame.
func (p *pipeline) publish(f movement.Frame) {
	if !p.manager.IsMovePlaying() {
		p.manager.QueueMove(movement.NewBreathingMove(p.rest))
	}
	if p.dash != nil {
		p.dash.Publish(f.Tick, f.Move, p.ctrl.Snapshot())
	}
}

// run blocks until ctx is done or a component fails.
func (p *pipeline) run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error { return p.manager.Run(ctx) })
	if p.dash != nil {
		g.Go(func() error { return p.dash.Run(ctx) })
	}
	if p.watcher != nil {
		g.Go(func() error {
			err := p.watcher.Run(ctx)
			if errors.Is(err, config.ErrNoFile) {
				p.log.Warn("config watch disabled", zap.Error(err))
				return nil
			}
			return err
		})
	}

	p.log.Info("sway running",
		zap.String("controller", p.ctrl.ID()),
		zap.String("skeleton", p.skeleton.ID()),
		zap.String("config", p.path),
	)
	err := g.Wait()
	p.ctrl.Disable()
	return err
}

func runPipeline(ctx context.Context, opts runOptions, logger *zap.Logger) error {
	p, err := newPipeline(opts, logger)
	if err != nil {
		return err
	}
	return p.run(ctx)
}
