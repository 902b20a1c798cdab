package nets

import (
	"context"
	"net"
	"time"

	"github.com/reusee/tairepl/cmds"
	"github.com/reusee/tairepl/configs"
	"github.com/reusee/tairepl/logs"
	"github.com/reusee/tairepl/vars"
)

type Dialer interface {
	Dial(network, addr string) (net.Conn, error)
	DialContext(ctx context.Context, network, addr string) (net.Conn, error)
}

type DialTimeout time.Duration

var dialTimeoutFlag = cmds.Var[string]("-dial-timeout")

const DefaultDialTimeout = DialTimeout(30 * time.Second)

func (Module) DialTimeout(
	loader configs.Loader,
	logger logs.Logger,
) DialTimeout {
	spec := vars.FirstNonZero(
		*dialTimeoutFlag,
		configs.First[string](loader, "dial_timeout"),
	)
	if spec == "" {
		return DefaultDialTimeout
	}
	d, err := time.ParseDuration(spec)
	if err != nil {
		logger.Warn("bad dial timeout", "value", spec, "error", err)
		return DefaultDialTimeout
	}
	return DialTimeout(d)
}

// Dialer connects to local addresses directly and to others through the proxy, if any.
func (Module) Dialer(
	getProxyDialer GetProxyDialer,
	isLocalAddr IsLocalAddr,
	timeout DialTimeout,
) Dialer {
	direct := &net.Dialer{
		Timeout: time.Duration(timeout),
	}
	return DialerFunc(func(ctx context.Context, network, addr string) (net.Conn, error) {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, time.Duration(timeout))
			defer cancel()
		}
		isLocal, err := isLocalAddr(addr)
		if err != nil {
			return nil, err
		}
		if isLocal {
			return direct.DialContext(ctx, network, addr)
		}
		proxyDialer, err := getProxyDialer()
		if err != nil {
			return nil, err
		}
		return proxyDialer.DialContext(ctx, network, addr)
	})
}

type DialerFunc func(context.Context, string, string) (net.Conn, error)

var _ Dialer = DialerFunc(nil)

func (d DialerFunc) DialContext(ctx context.Context, network string, addr string) (net.Conn, error) {
	return d(ctx, network, addr)
}

func (d DialerFunc) Dial(network string, addr string) (net.Conn, error) {
	return d(context.Background(), network, addr)
}
