// Package websocket pushes cleaning progress to browsers.
//
// A Hub owns the set of connected clients and fans broadcasts out to them.
// Each Client runs a read pump (keepalive only) and a write pump. The
// ProgressAdapter plugs the hub into the cleaning service so every finished
// stage and the final outcome reach subscribers as JSON events.
package websocket
