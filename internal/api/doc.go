// Package api defines the wire contract of the Promptify marketplace service:
// request/response messages, the gRPC service descriptor with its client
// stub, and the JSON codec both sides negotiate.
//
// The service is registered under ServiceName and speaks the "json" content
// subtype (application/grpc+json). Requests without arguments use
// google.protobuf.Empty; every other message is a plain Go struct.
package api
