// Package r503 implements a host-side driver for the GROW R503/R30x
// family of optical fingerprint modules, which communicate over a
// half-duplex asynchronous serial link using a framed, checksummed
// request/response protocol.
//
// The package covers the wire codec (framing, checksum, streaming
// payloads), the command/acknowledge transaction engine, and the
// AutoEnroll/AutoIdentify multi-step procedures. It deliberately does
// not implement the serial transport itself — callers supply a Reader
// and Writer over whatever UART, USB-to-UART bridge, or network proxy
// they have, and the engine drives the protocol over that abstraction.
package r503
