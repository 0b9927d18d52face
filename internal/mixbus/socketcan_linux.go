//go:build linux

package mixbus

import (
	"context"
	"fmt"
	"net"

	"go.einride.tech/can"
	"go.einride.tech/can/pkg/socketcan"
)

// SocketCAN writes frames to a Linux CAN interface such as can0 or vcan0.
type SocketCAN struct {
	conn net.Conn
	tx   *socketcan.Transmitter
}

func DialSocketCAN(ctx context.Context, iface string) (*SocketCAN, error) {
	conn, err := socketcan.DialContext(ctx, "can", iface)
	if err != nil {
		return nil, fmt.Errorf("socketcan dial %s: %w", iface, err)
	}
	return &SocketCAN{conn: conn, tx: socketcan.NewTransmitter(conn)}, nil
}

func (s *SocketCAN) TransmitFrame(ctx context.Context, frame can.Frame) error {
	return s.tx.TransmitFrame(ctx, frame)
}

func (s *SocketCAN) Close() error {
	return s.conn.Close()
}
