/*
Copyright 2022 The Numaproj Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package nats

import (
	"context"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/numaproj/numacep/pkg/shared/logging"
)

// Client wraps a core NATS connection with reconnect and logging handlers.
type Client struct {
	nc  *nats.Conn
	log *zap.SugaredLogger
}

// NewNATSClient connects to the NATS server at url. Extra options are applied after the defaults.
func NewNATSClient(ctx context.Context, url string, natsOptions ...nats.Option) (*Client, error) {
	log := logging.FromContext(ctx).With("url", url)
	opts := []nats.Option{
		// if max reconnects is set to -1, it will try to reconnect forever
		nats.MaxReconnects(-1),
		nats.ReconnectWait(3 * time.Second),
		// ping every 3 seconds, reconnect after two unanswered pings
		nats.PingInterval(3 * time.Second),
		nats.MaxPingsOutstanding(2),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			log.Errorw("Nats: error occurred for subscription", zap.Error(err))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Info("Nats: connection closed")
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Errorw("Nats: disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("Nats: reconnected")
		}),
		nats.LameDuckModeHandler(func(nc *nats.Conn) {
			log.Info("Nats: entering lame duck mode to avoid reconnect storm")
		}),
	}
	opts = append(opts, natsOptions...)
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats url=%s: %w", url, err)
	}
	return &Client{nc: nc, log: log}, nil
}

// QueueSubscribe subscribes to the subject, messages are load balanced across the members of the queue group.
// An empty queue is a plain subscription.
func (c *Client) QueueSubscribe(subject, queue string, handler nats.MsgHandler) (*nats.Subscription, error) {
	if queue == "" {
		return c.nc.Subscribe(subject, handler)
	}
	return c.nc.QueueSubscribe(subject, queue, handler)
}

// Publish publishes the data on the subject.
func (c *Client) Publish(subject string, data []byte) error {
	return c.nc.Publish(subject, data)
}

// Flush waits for the server to process the buffered messages.
func (c *Client) Flush() error {
	return c.nc.Flush()
}

// IsConnected reports whether the connection is up.
func (c *Client) IsConnected() bool {
	return c.nc.IsConnected()
}

// Close closes the connection.
func (c *Client) Close() {
	c.nc.Close()
}
