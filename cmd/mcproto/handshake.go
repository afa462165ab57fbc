package main

import (
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/urfave/cli/v2"

	"go.mcproto.dev/mcproto/pkg/proto"
	"go.mcproto.dev/mcproto/pkg/proto/packet"
	"go.mcproto.dev/mcproto/pkg/proto/stream"
)

func handshakeCommand() *cli.Command {
	return &cli.Command{
		Name:      "handshake",
		Usage:     "send a Handshake packet to a server and report the outcome",
		ArgsUsage: "<host:port>",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "protocol-version", Aliases: []string{"p"}, Value: 769, Usage: "protocol version to advertise"},
			&cli.StringFlag{Name: "next-state", Aliases: []string{"n"}, Value: "status", Usage: "status or login"},
			&cli.StringFlag{Name: "server-address", Aliases: []string{"a"}, Usage: "overrides the address sent in the packet"},
			&cli.DurationFlag{Name: "timeout", Value: 5 * time.Second},
		},
		Action: func(c *cli.Context) error {
			addr := c.Args().First()
			if addr == "" {
				return cli.Exit("missing <host:port>", 1)
			}
			host, _, err := net.SplitHostPort(addr)
			if err != nil {
				return cli.Exit(fmt.Errorf("invalid address %q: %w", addr, err), 1)
			}

			var next packet.NextState
			switch c.String("next-state") {
			case "status":
				next = packet.NextStateStatus
			case "login":
				next = packet.NextStateLogin
			default:
				return cli.Exit(fmt.Sprintf("invalid --next-state %q (want status or login)", c.String("next-state")), 1)
			}

			serverAddress := c.String("server-address")
			if serverAddress == "" {
				serverAddress = host
			}
			_, portStr, _ := net.SplitHostPort(addr)
			port, err := strconv.ParseUint(portStr, 10, 16)
			if err != nil {
				return cli.Exit(fmt.Errorf("invalid port in %q: %w", addr, err), 1)
			}

			conn, err := net.DialTimeout("tcp", addr, c.Duration("timeout"))
			if err != nil {
				return cli.Exit(fmt.Errorf("error connecting to %s: %w", addr, err), 1)
			}
			defer func() { _ = conn.Close() }()

			reg := packet.NewDefault()
			s := stream.New(reg, proto.Serverbound, proto.Handshaking)

			hs := &packet.Handshake{
				ProtocolVersion: int32(c.Int("protocol-version")),
				ServerAddress:   serverAddress,
				ServerPort:      uint16(port),
				NextState:       next,
			}
			if err := s.Serialize(hs, conn); err != nil {
				return cli.Exit(fmt.Errorf("error serializing handshake: %w", err), 1)
			}

			fmt.Printf("sent handshake: protocol=%d address=%s port=%d next_state=%s (%d bytes)\n",
				hs.ProtocolVersion, hs.ServerAddress, hs.ServerPort, hs.NextState, s.LastSerializedSize())
			return nil
		},
	}
}
