// Package apiconnect wires the casal services onto Connect handlers and
// clients. Every handler and client speaks JSON through api.Codec.
package apiconnect

import (
	"connectrpc.com/connect"

	"github.com/mmynk/casal/pkg/api"
)

func withHandlerCodec(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(api.Codec{})}, opts...)
}

func withClientCodec(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(api.Codec{})}, opts...)
}
