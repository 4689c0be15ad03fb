// Command frontbox is a minimal embedding example: it boots a Machine
// against one I/O port and one expansion port, registers a single
// demonstration System, and runs until interrupted. Real pinball rules,
// palettes, and animation content are the embedding application's concern
// (spec.md §1 "Out of scope"); this binary exists only to exercise the
// Builder and event loop end-to-end.
package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tstone/frontbox-go/hardware"
	"github.com/tstone/frontbox-go/internal/diagnostics"
	"github.com/tstone/frontbox-go/internal/machine"
	"github.com/tstone/frontbox-go/led"
	"github.com/tstone/frontbox-go/term"
)

// coinDoorSystem flashes a status LED whenever the coin door switch is
// closed. A stand-in for the kind of small System real rule authors would
// write.
const coinDoorFlashDuration = 2 * time.Second

type coinDoorSystem struct {
	fade *led.Interpolation
}

func (s *coinDoorSystem) Clone() machine.System {
	return &coinDoorSystem{}
}

func (s *coinDoorSystem) OnStartup(ctx *machine.Context) {
	machine.Subscribe(ctx, func(evt machine.SwitchClosed, ctx *machine.Context) {
		if evt.Switch != "coin_door" {
			return
		}
		s.fade = led.NewInterpolation(led.RGB(0, 255, 0), led.Black, coinDoorFlashDuration, led.ExponentialOut)
		ctx.SetTimer("coin_door_flash", coinDoorFlashDuration, machine.OneShot)
	})
}

func (s *coinDoorSystem) OnTimer(name string, ctx *machine.Context) {
	if name == "coin_door_flash" {
		s.fade = nil
	}
}

func (s *coinDoorSystem) Leds(dt time.Duration) map[string]led.State {
	if s.fade == nil {
		return map[string]led.State{"coin_door_status": led.Off}
	}
	s.fade.Advance(dt)
	return map[string]led.State{"coin_door_status": led.On(s.fade.Color())}
}

func main() {
	ioPortName := envOr("FRONTBOX_IO_PORT", "/dev/ttyUSB0")
	expPortName := envOr("FRONTBOX_EXP_PORT", "/dev/ttyUSB1")

	builder := machine.NewBuilder(ioPortName, expPortName, hardware.PlatformNeuron).
		Verbose(true).
		WithSwitch(machine.SwitchSpec{ID: 10, Name: "coin_door", Config: hardware.SwitchConfig{}}).
		WithVirtualSwitch("start_button").
		WithKeyMapping('s', "start_button").
		WithExpansionBoard(hardware.Neutron().WithLedPort(hardware.LedPortSpec{
			Port:    0,
			Start:   0,
			LedType: hardware.WS2812,
			Leds:    []string{"coin_door_status"},
		}))

	m, err := builder.Build()
	if err != nil {
		term.Errorf("frontbox: boot failed: %v", err)
		os.Exit(1)
	}

	hub := diagnostics.NewHub()
	m.SetDiagnosticsHub(hub)

	district := machine.NewSimpleDistrict(machine.NewSystemContainer(machine.NextListenerID(), &coinDoorSystem{}))
	m.InsertDistrict("main", district)

	stop := make(chan struct{})
	if err := machine.StartKeyboard(m.Queue(), stop); err != nil {
		term.Warnf("frontbox: keyboard unavailable: %v", err)
	}

	go func() {
		ticker := time.NewTicker(50 * time.Millisecond)
		defer ticker.Stop()
		last := time.Now()
		for range ticker.C {
			now := time.Now()
			dt := now.Sub(last)
			last = now
			select {
			case m.Queue() <- (machine.MachineCommand{Kind: machine.CmdSystemTick, TimerDur: dt}):
			default:
			}
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		close(stop)
		m.Queue() <- machine.MachineCommand{Kind: machine.CmdShutdown}
	}()

	term.Infof("frontbox: running")
	m.Run()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
