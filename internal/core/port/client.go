package port

// Client is one live observer connection.
type Client interface {
	ID() string
	Send(payload []byte) error
	Close() error
}
