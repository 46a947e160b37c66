// Package console implements the node console: the WebSocket control
// surface every running node exposes for inspecting and editing its
// configuration record while it runs.
//
// # Request Protocol
//
// Requests and responses are single text lines, one per WebSocket text
// message. The node answers every request with exactly one response:
//
//	get <key>          ->  ok <value>
//	set <key>:<value>  ->  ok
//	keys               ->  ok <key> <key> ...
//	id                 ->  ok <identifier>
//	save               ->  ok <path>
//
// A failed request produces an error response instead:
//
//	err <code> <detail>
//
// where <code> is one of unknown-key, malformed-value, io, or bad-request.
// Errors never end the session; the next request is processed normally.
//
// # Server
//
// The node process runs one Server for its lifetime:
//
//	srv, err := console.New(&console.Config{
//	    ListenAddr: ":8473",
//	    Store:      store,
//	    Identity:   id,
//	    Advertise:  true,
//	})
//	if err != nil {
//	    return err
//	}
//	return srv.Start() // blocks until SIGINT/SIGTERM
//
// Alongside the WebSocket endpoint at /console, the server answers plain
// GET / with a JSON snapshot of the node's identity, version, and fields.
//
// # Client
//
// Operator tooling connects with a Client:
//
//	client, err := console.Dial("192.168.4.16:8473")
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	value, _ := client.Get("gwMask")
//	if err := client.SetVerified("gwMask", "0000000F"); err != nil {
//	    return err
//	}
//	path, _ := client.Save()
//
// SetVerified reads the field back after writing and compares it against
// the canonical rendering of the sent value, so a successful return means
// the node really stores what was asked for.
package console
