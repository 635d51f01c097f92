package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"syscall"
	"time"

	"github.com/mverne/LumeGo/internal/config"
	"github.com/mverne/LumeGo/internal/debug"
	"github.com/mverne/LumeGo/internal/hw/gpio"
	"github.com/mverne/LumeGo/internal/hw/lightsensor"
	"github.com/mverne/LumeGo/internal/hw/motor"
	"github.com/mverne/LumeGo/internal/hw/panel"
	"github.com/mverne/LumeGo/internal/logic/mission"
	"github.com/mverne/LumeGo/internal/logic/morse"
	"github.com/mverne/LumeGo/internal/logic/pid"
	"github.com/mverne/LumeGo/internal/telemetry"
	"github.com/mverne/LumeGo/internal/web"
)

func main() {
	// CLI flags
	webPort := &webPortFlag{defaultPort: 8080}
	flag.Var(webPort, "web", "start web server on port; -web= for default 8080, -web 8980 for custom port")
	cfgPath := flag.String("config", filepath.Join("configs", "default.yaml"), "path to config file")
	followDurationS := flag.Int("follow_duration_s", 0, "override light-follow duration in seconds")
	targetLight := flag.Float64("target_light", 0, "override follow target on the sensor scale")
	readings := flag.Int("readings", 0, "override number of Morse readings")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Load configuration
	cfg, err := config.Load(*cfgPath)
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	// Validate CLI overrides (zero means "use config default")
	cliOverrides := web.Overrides{
		FollowDurationS: *followDurationS,
		TargetLight:     *targetLight,
		Readings:        *readings,
	}
	if err := web.ValidateOverrides(cliOverrides); err != nil {
		log.Fatalf("invalid CLI override: %v", err)
	}
	applyOverrides(cfg, cliOverrides)

	// Initialize debug system
	debug.Init(cfg.Defaults.DebugLevel)
	debug.Section("Initialization")
	debug.Value("Config path", *cfgPath)
	debug.Value("Debug level", cfg.Defaults.DebugLevel)
	debug.Value("Mock GPIO", cfg.Defaults.MockGPIO)

	// Initialize GPIO driver
	debug.Step(1, "Initializing GPIO driver")
	gpioDriver, err := gpio.NewDriver(cfg.Defaults.MockGPIO)
	if err != nil {
		log.Fatalf("init GPIO failed: %v", err)
	}
	defer func() {
		if err := gpioDriver.Close(); err != nil {
			log.Printf("closing GPIO driver failed: %v", err)
		}
	}()

	// Initialize motors
	debug.Step(2, "Initializing wheel motors")
	leftMotor := motor.NewMotor(gpioDriver, motor.Config{
		ForwardPin: cfg.LeftMotor.ForwardPin,
		ReversePin: cfg.LeftMotor.ReversePin,
		PWMPin:     cfg.LeftMotor.PWMPin,
	})
	debug.PrintStruct("Left motor config", cfg.LeftMotor)
	rightMotor := motor.NewMotor(gpioDriver, motor.Config{
		ForwardPin: cfg.RightMotor.ForwardPin,
		ReversePin: cfg.RightMotor.ReversePin,
		PWMPin:     cfg.RightMotor.PWMPin,
	})
	debug.PrintStruct("Right motor config", cfg.RightMotor)
	drive := motor.NewDrive(leftMotor, rightMotor)

	// Initialize light sensors
	debug.Step(3, "Initializing light sensors")
	source, leftSensor, closeSensors, err := newSensorsFromConfig(gpioDriver, cfg)
	if err != nil {
		log.Fatalf("init sensors failed: %v", err)
	}
	defer closeSensors()
	debug.Value("Sensor type", cfg.Sensors.Type)

	// Initialize operator panel
	debug.Step(4, "Initializing operator panel")
	buzzer, button := newPanelFromConfig(gpioDriver, cfg)

	// Optional MQTT telemetry
	var act pid.Actuator = drive
	var pub *telemetry.Publisher
	if cfg.Telemetry.Enabled {
		debug.Step(5, "Connecting telemetry")
		pub, err = telemetry.Connect(cfg.Telemetry.Broker, cfg.Telemetry.ClientID,
			cfg.Telemetry.TickTopic, cfg.Telemetry.ResultTopic)
		if err != nil {
			log.Fatalf("connect telemetry failed: %v", err)
		}
		defer pub.Close()
		act = telemetry.InstrumentActuator(drive, pub)
	}

	tracker := pid.NewTracker(source, act, pid.Options{
		Gains:         pid.Gains{P: cfg.PID.GainP, I: cfg.PID.GainI, D: cfg.PID.GainD},
		DecoupledDiff: cfg.PID.DecoupledDiff,
	})

	var missionPub mission.Publisher
	if pub != nil {
		missionPub = pub
	}
	m := mission.New(tracker, act, leftSensor, buzzer, button, morse.NewDictionary(), missionPub)

	// Build runMission closure over hardware and base config
	runMission := func(ctx context.Context, overrides web.Overrides) error {
		return executeMission(ctx, cfg, m, overrides)
	}

	if port := webPort.port(); port > 0 {
		webAddr := fmt.Sprintf(":%d", port)
		broadcaster := web.NewStatusBroadcaster()
		debug.SetOutput(io.MultiWriter(os.Stdout, web.BroadcastWriter(broadcaster)))

		formDefaults := web.FormConfig{
			FollowDurationS: cfg.PID.FollowDurationS,
			TargetLight:     cfg.PID.TargetLight,
			Readings:        cfg.Morse.Readings,
		}
		srv := web.NewServer(webAddr, broadcaster, runMission, formDefaults)
		if err := srv.Run(ctx); err != nil {
			log.Fatalf("web server: %v", err)
		}
		return
	}

	// Run the mission once with current config (CLI overrides already applied)
	if err := runMission(ctx, web.Overrides{}); err != nil {
		log.Fatalf("mission failed: %v", err)
	}
}

// executeMission runs the demo flow with the given config and overrides.
func executeMission(ctx context.Context, cfg *config.Config, m *mission.Mission, overrides web.Overrides) error {
	params := mission.Params{
		FollowDuration: cfg.FollowDuration(),
		Target:         cfg.PID.TargetLight,
		Readings:       cfg.Morse.Readings,
		PreReadDelay:   cfg.PreReadDelay(),
		BeepUnit:       cfg.BeepUnit(),
		MaxRef:         cfg.Morse.MaxRef,
		MinRef:         cfg.Morse.MinRef,
	}
	if overrides.FollowDurationS > 0 {
		params.FollowDuration = time.Duration(overrides.FollowDurationS) * time.Second
	}
	if overrides.TargetLight > 0 {
		params.Target = overrides.TargetLight
	}
	if overrides.Readings > 0 {
		params.Readings = overrides.Readings
	}

	result, err := m.Run(ctx, params)
	if err != nil {
		return err
	}

	debug.Summary("Mission Complete")
	debug.Value("Word", result.Word)
	debug.Value("Run lengths", result.Runs)
	return nil
}

// applyOverrides mutates cfg with overrides. Only non-zero override values are applied.
func applyOverrides(cfg *config.Config, overrides web.Overrides) {
	if overrides.FollowDurationS > 0 {
		cfg.PID.FollowDurationS = overrides.FollowDurationS
	}
	if overrides.TargetLight > 0 {
		cfg.PID.TargetLight = overrides.TargetLight
	}
	if overrides.Readings > 0 {
		cfg.Morse.Readings = overrides.Readings
	}
}

// newSensorsFromConfig selects the sample source and the single left
// sensor used for calibration and Morse acquisition.
func newSensorsFromConfig(g gpio.Driver, cfg *config.Config) (pid.SampleSource, lightsensor.Sensor, func(), error) {
	noop := func() {}
	switch cfg.Sensors.Type {
	case "mock":
		// Scripted ramp toward the default target, then steady.
		left := lightsensor.NewMockSensor(20, 40, 60, 80, 90)
		right := lightsensor.NewMockSensor(15, 35, 60, 85, 90)
		return &lightsensor.PairSource{Left: left, Right: right}, left, noop, nil
	case "gpio":
		left := lightsensor.NewChargeTimer(g, cfg.Sensors.LeftPin, cfg.ChargeTimeout())
		right := lightsensor.NewChargeTimer(g, cfg.Sensors.RightPin, cfg.ChargeTimeout())
		return &lightsensor.PairSource{Left: left, Right: right}, left, noop, nil
	case "serial":
		bridge, err := lightsensor.OpenSerialBridge(cfg.Sensors.Port, cfg.Sensors.Baud)
		if err != nil {
			return nil, nil, nil, err
		}
		closer := func() {
			if err := bridge.Close(); err != nil {
				log.Printf("closing serial bridge failed: %v", err)
			}
		}
		return bridge, bridge.LeftSensor(), closer, nil
	default:
		return nil, nil, nil, fmt.Errorf("unsupported sensor type: %s", cfg.Sensors.Type)
	}
}

// newPanelFromConfig wires the buzzer and button. With mock GPIO the
// panel mocks are used instead, so a dev-mode mission runs unattended.
func newPanelFromConfig(g gpio.Driver, cfg *config.Config) (panel.Buzzer, panel.Button) {
	if cfg.Defaults.MockGPIO {
		return &panel.MockBuzzer{}, &panel.MockButton{}
	}
	return panel.NewGPIOBuzzer(g, cfg.Panel.BuzzerPin), panel.NewGPIOButton(g, cfg.Panel.ButtonPin)
}

// webPortFlag implements flag.Value for -web: 0 = disabled, -web= or -web 8080 → 8080, -web 8980 → 8980.
type webPortFlag struct {
	val         int
	defaultPort int
}

func (w *webPortFlag) String() string {
	if w.val == 0 {
		return "0"
	}
	return strconv.Itoa(w.val)
}

func (w *webPortFlag) Set(s string) error {
	if s == "" {
		w.val = w.defaultPort
		return nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return err
	}
	if v <= 0 || v > 65535 {
		return fmt.Errorf("port must be 1-65535, got %d", v)
	}
	w.val = v
	return nil
}

func (w *webPortFlag) port() int { return w.val }
