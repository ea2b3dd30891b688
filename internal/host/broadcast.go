package host

import (
	"context"

	"github.com/sourcegraph/conc/pool"

	"github.com/Iron-Ham/pulse/internal/envelope"
	"github.com/Iron-Ham/pulse/internal/errors"
)

// Broadcast enumerates ch's recipients and issues one SendDirected per
// recipient. Replies are returned in enumeration order.
//
// Sends run concurrently, at most limit at a time (limit <= 0 means
// unbounded). The first failure cancels the outstanding sends and is
// returned alone; no partial result is produced.
func Broadcast(ctx context.Context, ch Channel, env envelope.Envelope, limit int) ([]any, error) {
	recipients, err := ch.Recipients(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "enumerate recipients")
	}

	replies := make([]any, len(recipients))
	if len(recipients) == 0 {
		return replies, nil
	}

	base := pool.New()
	if limit > 0 {
		base = base.WithMaxGoroutines(limit)
	}
	p := base.WithContext(ctx).WithCancelOnError().WithFirstError()

	for i, id := range recipients {
		p.Go(func(ctx context.Context) error {
			reply, err := ch.SendDirected(ctx, id, env)
			if err != nil {
				return err
			}
			replies[i] = reply
			return nil
		})
	}

	if err := p.Wait(); err != nil {
		return nil, err
	}
	return replies, nil
}
