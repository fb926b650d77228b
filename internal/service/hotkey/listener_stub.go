//go:build !windows

package hotkey

import "errors"

func newPlatformListener() (Listener, error) {
	return nil, errors.New("hotkey: global hotkeys are supported on windows only")
}
