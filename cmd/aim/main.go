// Package main fits each scene effect's launch onto its receiver and reports
// the angle and speed that land the stream on the receiver's top edge.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/sandpour/config"
	"github.com/pthm-cable/sandpour/effect"
	"github.com/pthm-cable/sandpour/renderer"
	"github.com/pthm-cable/sandpour/trajectory"
)

// AimResult is one row of aim.csv.
type AimResult struct {
	Effect      string  `csv:"effect"`
	OriginX     float64 `csv:"origin_x"`
	OriginY     float64 `csv:"origin_y"`
	TargetX     float64 `csv:"target_x"`
	TargetY     float64 `csv:"target_y"`
	Distance    float64 `csv:"distance"`
	BaseAngle   float64 `csv:"base_angle"`
	BaseSpeed   float64 `csv:"base_speed"`
	BaseMiss    float64 `csv:"base_miss"`
	Angle       float64 `csv:"angle"`
	Speed       float64 `csv:"speed"`
	Miss        float64 `csv:"miss"`
	Evaluations int     `csv:"evaluations"`
	Hit         bool    `csv:"hit"`
	FillSeconds float64 `csv:"fill_seconds"` // pouring time to fill the receiver
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	outputDir := flag.String("output", "", "Output directory for aim.csv and fitted config (empty = print only)")
	apply := flag.String("apply", "", "Write a config with this effect's fitted launch to the output directory")
	flag.Parse()

	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	cfg := config.Cfg()

	results := make([]*AimResult, 0, len(cfg.Scene.Effects))
	for _, placement := range cfg.Scene.Effects {
		res, err := aim(cfg, placement)
		if err != nil {
			log.Printf("%s: %v", placement.Name, err)
		}
		if res != nil {
			results = append(results, res)
		}
	}

	for _, r := range results {
		status := "hit"
		if !r.Hit {
			status = "unreachable"
		}
		fmt.Printf("%-12s base angle=%.2f speed=%.3f miss=%+.4f | fitted angle=%.2f speed=%.3f miss=%+.5f (%s, %d evals)\n",
			r.Effect, r.BaseAngle, r.BaseSpeed, r.BaseMiss, r.Angle, r.Speed, r.Miss, status, r.Evaluations)
	}

	if *outputDir == "" {
		return
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}

	csvPath := filepath.Join(*outputDir, "aim.csv")
	f, err := os.Create(csvPath)
	if err != nil {
		log.Fatalf("failed to create %s: %v", csvPath, err)
	}
	defer f.Close()
	if err := gocsv.MarshalFile(&results, f); err != nil {
		log.Fatalf("failed to write %s: %v", csvPath, err)
	}
	fmt.Printf("\nResults saved to: %s\n", csvPath)

	if *apply != "" {
		applyFit(*configPath, *outputDir, *apply, results)
	}
}

// aim fits one placement. A result is returned even when the target is out
// of reach so the closest launch can still be inspected.
func aim(cfg *config.Config, placement config.EffectPlacement) (*AimResult, error) {
	ctrl, err := effect.New(effect.FromConfig(cfg, placement.Name),
		effect.WithReference(effect.StaticReference(placement.Position)))
	if err != nil {
		return nil, err
	}
	ecfg := ctrl.Config()
	origin := ctrl.Frame().Origin
	target := placement.Position.Add(placement.ReceiverOffset).Add(mgl64.Vec3{0, renderer.ReceiverHalfHeight, 0})

	res := &AimResult{
		Effect:    placement.Name,
		OriginX:   origin.X(),
		OriginY:   origin.Y(),
		TargetX:   target.X(),
		TargetY:   target.Y(),
		BaseAngle: ecfg.Trajectory.LaunchAngleDeg,
		BaseSpeed: ecfg.Trajectory.Speed,
	}
	if ecfg.Rates.FillSpeed > 0 {
		res.FillSeconds = 1 / ecfg.Rates.FillSpeed
	}

	fit, err := trajectory.FitLaunch(origin, target, ecfg.Trajectory, ecfg.Gravity())
	res.Distance = fit.Distance
	res.Angle = fit.Params.LaunchAngleDeg
	res.Speed = fit.Params.Speed
	res.Miss = fit.Miss
	res.Evaluations = fit.Evaluations
	res.Hit = err == nil

	if fit.Distance > 0 {
		v0, verr := ecfg.Trajectory.InitialVelocity()
		if verr == nil {
			if y, derr := trajectory.DropAt(v0, ecfg.Gravity(), fit.Distance); derr == nil {
				res.BaseMiss = y - target.Sub(origin).Y()
			}
		}
	}
	if err != nil && fit.Distance == 0 {
		return nil, err
	}
	return res, err
}

// applyFit writes the base config with the named effect's fitted launch.
func applyFit(configPath, outputDir, name string, results []*AimResult) {
	var chosen *AimResult
	for _, r := range results {
		if r.Effect == name {
			chosen = r
		}
	}
	if chosen == nil || !chosen.Hit {
		log.Printf("no fitted launch for effect %q", name)
		return
	}

	fitted, err := config.Load(configPath)
	if err != nil {
		log.Printf("failed to reload config: %v", err)
		return
	}
	fitted.Emitter.LaunchAngle = chosen.Angle
	fitted.Emitter.StartSpeed = chosen.Speed

	outPath := filepath.Join(outputDir, "aimed_config.yaml")
	if err := fitted.WriteYAML(outPath); err != nil {
		log.Printf("failed to write fitted config: %v", err)
		return
	}
	fmt.Printf("Fitted config saved to: %s\n", outPath)
}
