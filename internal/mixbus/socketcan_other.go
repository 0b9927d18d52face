//go:build !linux

package mixbus

import (
	"context"
	"errors"

	"go.einride.tech/can"
)

var errNoSocketCAN = errors.New("mixbus: socketcan is only available on linux")

type SocketCAN struct{}

func DialSocketCAN(ctx context.Context, iface string) (*SocketCAN, error) {
	return nil, errNoSocketCAN
}

func (s *SocketCAN) TransmitFrame(ctx context.Context, frame can.Frame) error {
	return errNoSocketCAN
}

func (s *SocketCAN) Close() error {
	return nil
}
