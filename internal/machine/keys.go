package machine

import (
	"github.com/eiannone/keyboard"

	"github.com/tstone/frontbox-go/term"
)

// StartKeyboard opens the keyboard in raw mode and pushes a Key command
// into queue for every rune typed, until stop is closed. Grounded on
// teacher ui/keypress_windows.go's singleton reader goroutine; unlike the
// teacher, this framework has no prompt/retry UI to drive, so every key
// simply becomes a Key command fed to the Machine's own dispatch.
func StartKeyboard(queue chan<- MachineCommand, stop <-chan struct{}) error {
	if err := keyboard.Open(); err != nil {
		return err
	}
	go func() {
		defer keyboard.Close()
		for {
			char, key, err := keyboard.GetKey()
			if err != nil {
				term.Warnf("machine: keyboard read failed, stopping: %v", err)
				return
			}
			select {
			case <-stop:
				return
			default:
			}
			r := char
			if key == keyboard.KeyEsc {
				r = 27
			} else if key != 0 {
				continue // ignore other non-character keys (arrows, F-keys, etc.)
			}
			select {
			case queue <- MachineCommand{Kind: CmdKey, KeyEvent: r}:
			default:
			}
		}
	}()
	return nil
}
