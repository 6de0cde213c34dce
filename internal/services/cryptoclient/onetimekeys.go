package cryptoclient

import (
	"context"
	"log/slog"

	"keyward/internal/domain"
)

// OneTimeKeyTarget is the number of signed one-time keys kept on the server.
const OneTimeKeyTarget = 50

// shortfall returns how many signed keys must be uploaded to reach the
// target. Counts are untrusted; negative values count as zero.
func shortfall(counts domain.OneTimeKeyCounts) int {
	signed := max(counts.Signed(), 0)
	return max(OneTimeKeyTarget-signed, 0)
}

// UpdateCounts reconciles the server-reported one-time key counts against
// the target, generating and uploading any shortfall. Only the
// signed_curve25519 entry is consulted.
func (c *Client) UpdateCounts(ctx context.Context, counts domain.OneTimeKeyCounts) error {
	if err := c.gate.check(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.reconcile(ctx, c.sess, counts)
}

// TopUp asks the homeserver for its current counts and reconciles them.
func (c *Client) TopUp(ctx context.Context) (domain.OneTimeKeyCounts, error) {
	if err := c.gate.check(); err != nil {
		return nil, err
	}
	counts, err := c.hs.CheckOneTimeKeyCounts(ctx)
	if err != nil {
		return nil, upstream("check one-time key counts", err)
	}
	if err := c.UpdateCounts(ctx, counts); err != nil {
		return nil, err
	}
	return counts, nil
}

// reconcile is the shared top-up path. Callers hold c.mu. Once an upload
// succeeds, sess becomes the Client's session even if a later step fails.
func (c *Client) reconcile(ctx context.Context, sess *session, counts domain.OneTimeKeyCounts) error {
	needed := shortfall(counts)
	if needed == 0 {
		c.logger.Debug("one-time keys at target", slog.Int("signed", counts.Signed()))
		return nil
	}

	generated, err := sess.account.GenerateOneTimeKeys(needed)
	if err != nil {
		return upstream("generate one-time keys", err)
	}

	upload := make(domain.SignedOneTimeKeys, len(generated))
	for _, k := range generated {
		sigs, err := sess.signJSON(struct {
			Key string `json:"key"`
		}{Key: k.Key})
		if err != nil {
			return upstream("sign one-time key", err)
		}
		upload[domain.KeyID(domain.AlgorithmSignedCurve25519, k.ID)] = domain.SignedKey{
			Key:        k.Key,
			Signatures: sigs,
		}
	}

	if _, err := c.hs.UploadOneTimeKeys(ctx, upload); err != nil {
		return upstream("upload one-time keys", err)
	}
	sess.account.MarkKeysAsPublished()
	// From here the server holds ids only this account has counted past.
	c.sess = sess

	if err := c.persist(sess); err != nil {
		return err
	}
	c.logger.Info("uploaded one-time keys",
		slog.Int("uploaded", needed),
		slog.Int("reported_signed", counts.Signed()),
	)
	return nil
}

// persist pickles the account and writes it to the store, writing the
// pickle key first if it has not been stored yet.
func (c *Client) persist(sess *session) error {
	blob, err := sess.account.Pickle(sess.pickleKey)
	if err != nil {
		return upstream("pickle account", err)
	}
	if !sess.pickleKeyStored {
		if err := c.store.SavePickleKey(sess.pickleKey); err != nil {
			return upstream("save pickle key", err)
		}
		sess.pickleKeyStored = true
	}
	if err := c.store.SavePickledAccount(blob); err != nil {
		return upstream("save pickled account", err)
	}
	return nil
}
