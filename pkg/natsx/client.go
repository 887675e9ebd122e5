package natsx

import "github.com/nats-io/nats.go"

// ClientName is the connection name reported to the NATS server by default.
const ClientName = "shoal"

// Connect connects to the NATS server at url. Without options the connection
// is named ClientName and uses compression. An empty url falls back to
// nats.DefaultURL.
func Connect(url string, opts ...nats.Option) (*nats.Conn, error) {
	if url == "" {
		url = nats.DefaultURL
	}
	if len(opts) == 0 {
		opts = append(opts, nats.Name(ClientName), nats.Compression(true))
	}
	return nats.Connect(url, opts...)
}
