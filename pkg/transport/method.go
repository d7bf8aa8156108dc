// pkg/transport/method.go

// Package transport decides how the firmware reaches the board: which
// flashing method to use and with what parameters.
package transport

import (
	"fmt"
	"strings"
)

// Kind identifies a flashing method. The set is closed; ParseKind is
// the only way in from operator input.
type Kind int

const (
	KindWchispUSB Kind = iota
	KindWchispSerial
	KindDFU
	KindSerial
	KindSDCard
)

// kindOrder is the fixed preference order used by auto-detection.
var kindOrder = []Kind{KindWchispUSB, KindWchispSerial, KindDFU, KindSerial, KindSDCard}

func (k Kind) String() string {
	switch k {
	case KindWchispUSB:
		return "wchisp"
	case KindWchispSerial:
		return "wchisp-serial"
	case KindDFU:
		return "dfu"
	case KindSerial:
		return "serial"
	case KindSDCard:
		return "sdcard"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind maps operator spellings to a Kind. "wchisp-usb" is accepted
// as an alias for "wchisp".
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "wchisp", "wchisp-usb":
		return KindWchispUSB, nil
	case "wchisp-serial":
		return KindWchispSerial, nil
	case "dfu":
		return KindDFU, nil
	case "serial":
		return KindSerial, nil
	case "sdcard":
		return KindSDCard, nil
	}
	return 0, fmt.Errorf("unknown flash method %q (wchisp, wchisp-serial, dfu, serial, sdcard)", s)
}

// Method is a resolved transport: the kind plus every parameter the
// flashing command needs.
type Method struct {
	Kind        Kind
	SerialPort  string
	BaudRate    int
	USBIndex    int
	SDCardPath  string
	FlashScript string
}

// NeedsWchisp reports whether the method runs through the wchisp binary.
func (m Method) NeedsWchisp() bool {
	return m.Kind == KindWchispUSB || m.Kind == KindWchispSerial
}

// Resolution is a chosen method with the detection rationale that led
// to it, surfaced later in the session report.
type Resolution struct {
	Method    Method
	Rationale []string
}
