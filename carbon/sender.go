package carbon

import (
	"bufio"
	"fmt"
	"net"
	"time"
)

// Line is one formatted sample: a dot-delimited path and a decimal value.
// The batch timestamp is appended by the sender.
type Line struct {
	Path  string
	Value string
}

// Sender delivers one batch of samples sharing a single timestamp.
type Sender interface {
	Send(lines []Line, timestamp int64) error
	Close() error
}

// CarbonSender writes batches to a carbon relay over a single persistent TCP
// connection using the plaintext protocol, one `path value timestamp` line
// per sample. It connects lazily on the first send and discards the
// connection after any failure; the next send dials fresh. There is no
// internal retry, the caller owns the retry schedule.
//
// The sender is owned by a single reporting goroutine and is not safe for
// concurrent use.
type CarbonSender struct {
	address      string
	dialTimeout  time.Duration
	writeTimeout time.Duration
	conn         net.Conn
}

// NewCarbonSender creates a disconnected sender for the given relay address.
func NewCarbonSender(address string, dialTimeout, writeTimeout time.Duration) *CarbonSender {
	return &CarbonSender{
		address:      address,
		dialTimeout:  dialTimeout,
		writeTimeout: writeTimeout,
	}
}

// Send writes all lines with the shared timestamp and flushes. On any
// failure the connection is closed and discarded before the error is
// returned.
func (sender *CarbonSender) Send(lines []Line, timestamp int64) error {
	if err := sender.connect(); err != nil {
		return err
	}
	if sender.writeTimeout > 0 {
		if err := sender.conn.SetWriteDeadline(time.Now().Add(sender.writeTimeout)); err != nil {
			sender.disconnect()
			return fmt.Errorf("can't set write deadline on carbon connection: %w", err)
		}
	}

	writer := bufio.NewWriter(sender.conn)
	for _, line := range lines {
		if _, err := fmt.Fprintf(writer, "%s %s %d\n", line.Path, line.Value, timestamp); err != nil {
			sender.disconnect()
			return fmt.Errorf("can't write to carbon at %s: %w", sender.address, err)
		}
	}
	if err := writer.Flush(); err != nil {
		sender.disconnect()
		return fmt.Errorf("can't write to carbon at %s: %w", sender.address, err)
	}
	return nil
}

// Close releases the connection if one is open.
func (sender *CarbonSender) Close() error {
	if sender.conn == nil {
		return nil
	}
	err := sender.conn.Close()
	sender.conn = nil
	return err
}

func (sender *CarbonSender) connect() error {
	if sender.conn != nil {
		return nil
	}
	conn, err := net.DialTimeout("tcp", sender.address, sender.dialTimeout)
	if err != nil {
		return fmt.Errorf("can't connect to carbon at %s: %w", sender.address, err)
	}
	sender.conn = conn
	return nil
}

func (sender *CarbonSender) disconnect() {
	if sender.conn != nil {
		sender.conn.Close() //nolint
		sender.conn = nil
	}
}
