// Package msg defines the message types used by the TUI's Bubbletea event loop.
//
// This package contains the [tea.Msg] types that report the outcome of
// backend requests, and the [tea.Cmd] factories that issue those requests
// off the event loop. Every backend call goes through a [Session], so the
// model never blocks while the controller waits on the network or pads a
// reply.
package msg
