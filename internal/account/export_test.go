package account

import "keyward/internal/domain"

// UnpublishedKeys returns the public halves of the unpublished keys.
func (a *Account) UnpublishedKeys() []domain.OneTimeKey {
	out := make([]domain.OneTimeKey, 0, len(a.unpublished))
	for _, k := range a.unpublished {
		out = append(out, k.public())
	}
	return out
}

// KeyCounter returns the id of the most recently generated one-time key.
func (a *Account) KeyCounter() uint32 { return a.nextKeyID }
