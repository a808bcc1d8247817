package evm

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/rpc"
)

// LazyProvider dials the wallet provider on first use, so a desk can start
// before the wallet is running. A failed dial is retried on the next call.
type LazyProvider struct {
	url string

	mu     sync.Mutex
	client *rpc.Client
}

// NewLazyProvider returns a provider for url that has not dialled yet.
func NewLazyProvider(url string) *LazyProvider {
	return &LazyProvider{url: url}
}

// CallContext implements Provider.
func (p *LazyProvider) CallContext(ctx context.Context, result interface{}, method string, args ...interface{}) error {
	c, err := p.dial(ctx)
	if err != nil {
		return err
	}
	return c.CallContext(ctx, result, method, args...)
}

func (p *LazyProvider) dial(ctx context.Context) (*rpc.Client, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		return p.client, nil
	}
	c, err := Dial(ctx, p.url)
	if err != nil {
		return nil, err
	}
	p.client = c
	return c, nil
}

// Close closes the connection if one was made.
func (p *LazyProvider) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.client != nil {
		p.client.Close()
		p.client = nil
	}
}
