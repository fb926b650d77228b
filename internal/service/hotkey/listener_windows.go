//go:build windows

package hotkey

import (
	"context"
	"runtime"
	"syscall"
	"time"
	"unsafe"

	"github.com/lxn/win"
)

// Обёртки для функций, которых может не быть в lxn/win
var (
	user32               = syscall.NewLazyDLL("user32.dll")
	procRegisterHotKey   = user32.NewProc("RegisterHotKey")
	procUnregisterHotKey = user32.NewProc("UnregisterHotKey")
)

const (
	hotkeyIDForce  = 1
	hotkeyIDToggle = 2

	modAlt = 0x0001
	vkS    = 0x53
	vkA    = 0x41
)

type windowsListener struct {
	out chan Event
}

func newPlatformListener() (Listener, error) {
	return &windowsListener{out: make(chan Event, 16)}, nil
}

func (l *windowsListener) Events() <-chan Event { return l.out }

// Run крутит цикл сообщений скрытого окна до отмены контекста.
// Возвращает nil даже если часть хоткеев занята другим приложением.
func (l *windowsListener) Run(ctx context.Context) error {
	// UI/WinAPI должен жить в закрепленном системном потоке
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()

	className := syscall.StringToUTF16Ptr("AssistantHotkeyWindowClass")

	var wc win.WNDCLASSEX
	wc.CbSize = uint32(unsafe.Sizeof(wc))
	wc.LpfnWndProc = syscall.NewCallback(func(hwnd win.HWND, msg uint32, wParam, lParam uintptr) uintptr {
		switch msg {
		case win.WM_HOTKEY:
			var action Action
			switch wParam {
			case hotkeyIDForce:
				action = ActionForceSolve
			case hotkeyIDToggle:
				action = ActionToggleAutoSolve
			default:
				return 0
			}
			select {
			case l.out <- Event{Action: action, At: time.Now()}:
			default:
			}
			return 0
		case win.WM_DESTROY:
			win.PostQuitMessage(0)
			return 0
		}
		return win.DefWindowProc(hwnd, msg, wParam, lParam)
	})
	wc.HInstance = win.GetModuleHandle(nil)
	wc.HCursor = win.LoadCursor(0, (*uint16)(unsafe.Pointer(uintptr(win.IDC_ARROW))))
	wc.LpszClassName = className
	if win.RegisterClassEx(&wc) == 0 {
		// возможно, уже зарегистрирован — пробуем продолжить
	}

	hwnd := win.CreateWindowEx(
		0,
		className,
		syscall.StringToUTF16Ptr("AssistantHotkeyWindow"),
		0,
		0, 0, 0, 0,
		0,
		0,
		wc.HInstance,
		nil,
	)
	if hwnd == 0 {
		return syscall.GetLastError()
	}

	// Занятый другим приложением хоткей не фатален: остальные продолжают работать
	_ = registerHotKey(hwnd, hotkeyIDForce, modAlt, vkS)
	_ = registerHotKey(hwnd, hotkeyIDToggle, modAlt, vkA)

	done := make(chan struct{}, 1)
	go func() {
		<-ctx.Done()
		win.PostMessage(hwnd, win.WM_CLOSE, 0, 0)
		done <- struct{}{}
	}()

	msg := new(win.MSG)
	for {
		r := win.GetMessage(msg, 0, 0, 0)
		if r == 0 || r == -1 { // WM_QUIT или ошибка
			break
		}
		win.TranslateMessage(msg)
		win.DispatchMessage(msg)
		select {
		case <-done:
			break
		default:
		}
	}

	_ = unregisterHotKey(hwnd, hotkeyIDForce)
	_ = unregisterHotKey(hwnd, hotkeyIDToggle)
	win.DestroyWindow(hwnd)
	return ctx.Err()
}

func registerHotKey(hwnd win.HWND, id int32, modifiers uint32, vk uint32) bool {
	if procRegisterHotKey.Find() != nil {
		return false
	}
	r, _, _ := procRegisterHotKey.Call(uintptr(hwnd), uintptr(id), uintptr(modifiers), uintptr(vk))
	return r != 0
}

func unregisterHotKey(hwnd win.HWND, id int32) bool {
	if procUnregisterHotKey.Find() != nil {
		return false
	}
	r, _, _ := procUnregisterHotKey.Call(uintptr(hwnd), uintptr(id))
	return r != 0
}
