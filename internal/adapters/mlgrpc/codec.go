package mlgrpc

import "encoding/json"

// jsonCodec marshals gRPC messages as JSON instead of protobuf wire
// format. The ML service's training/prediction payloads are opaque
// feature rows and byte blobs, not a shared .proto contract, so a plain
// JSON envelope keeps the client and service decoupled from a generated
// stub while still riding real grpc.ClientConn framing, flow control,
// and deadline propagation.
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string { return "json" }
