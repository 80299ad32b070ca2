// Package ws implements the WebSocket hub for medsense-server.
//
// Hub manages a set of connected observers and fans out every published
// record to all of them. Publishing is fire-and-forget: delivery is
// at-most-once per currently connected observer, there is no replay buffer
// for late joiners, and a publisher never waits on a slow client — an
// observer whose outgoing buffer fills up is disconnected.
//
// New(logger) creates a Hub.
// Hub.Run(ctx) blocks until ctx is cancelled, then closes all connections.
// Hub.ServeHTTP upgrades an HTTP connection to WebSocket.
// Hub.Publish(topic, payload) broadcasts one record on a topic.
//
// Message format sent to observers:
//
//	{
//	  "event": "vital" | "alert",
//	  "data":  { /* Sample or Alert JSON */ }
//	}
//
// The upgrader accepts all origins. Apply CORS restrictions at the reverse
// proxy level. The WebSocket endpoint is mounted at /ws/stream by the server.
package ws
