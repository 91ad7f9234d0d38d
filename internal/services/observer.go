package services

import (
	"context"
	"sync"
	"time"

	"lovespace-backend/internal/models"

	"github.com/rs/zerolog/log"
)

// CoupleSnapshot is the pairing state exposed to UI consumers. Loading is
// true only during the first resolution after the observed user becomes
// known; OperationLoading is true while any mutating call is in flight.
type CoupleSnapshot struct {
	Couple           *models.Couple      `json:"couple"`
	Partner          *models.PartnerInfo `json:"partner"`
	MyAvatar         *models.Avatar      `json:"my_avatar"`
	Loading          bool                `json:"loading"`
	OperationLoading bool                `json:"operation_loading"`
}

// CoupleObserver watches one user's pairing state. It bootstraps the state
// when the user becomes known and then re-polls the current couple on a
// fixed interval to catch externally-driven transitions, e.g. the partner
// redeeming the invite code from another device. The backend has no change
// feed for this data path, so polling trades up-to-interval staleness for
// simplicity.
//
// Bootstrap and poll failures are logged and treated as "no change"; they
// are never surfaced to consumers.
type CoupleObserver struct {
	couples  *CoupleService
	avatars  *AvatarService
	interval time.Duration
	onChange func(CoupleSnapshot)

	mu               sync.Mutex
	userID           string
	couple           *models.Couple
	partner          *models.PartnerInfo
	myAvatar         *models.Avatar
	loading          bool
	operationLoading bool
	stopped          bool

	cancel context.CancelFunc
	done   chan struct{}
}

// NewCoupleObserver creates an observer. onChange is invoked with a fresh
// snapshot after every state change; it may be nil.
func NewCoupleObserver(couples *CoupleService, avatars *AvatarService, interval time.Duration, onChange func(CoupleSnapshot)) *CoupleObserver {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	return &CoupleObserver{
		couples:  couples,
		avatars:  avatars,
		interval: interval,
		onChange: onChange,
	}
}

// Start begins observing the given user: an initial load followed by the
// recurring poll. A running observer is stopped first, so a user change
// resets all held state.
func (o *CoupleObserver) Start(userID string) {
	o.Stop()

	ctx, cancel := context.WithCancel(context.Background())

	o.mu.Lock()
	o.userID = userID
	o.loading = true
	o.stopped = false
	o.cancel = cancel
	o.done = make(chan struct{})
	done := o.done
	o.mu.Unlock()

	go o.run(ctx, done)
}

// Stop cancels the poll and clears all held state. No change notification
// fires after Stop returns.
func (o *CoupleObserver) Stop() {
	o.mu.Lock()
	cancel := o.cancel
	done := o.done
	o.stopped = true
	o.cancel = nil
	o.done = nil
	o.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done

	o.mu.Lock()
	o.userID = ""
	o.couple = nil
	o.partner = nil
	o.myAvatar = nil
	o.loading = false
	o.operationLoading = false
	o.mu.Unlock()
}

// Snapshot returns the currently held pairing state.
func (o *CoupleObserver) Snapshot() CoupleSnapshot {
	o.mu.Lock()
	defer o.mu.Unlock()
	return CoupleSnapshot{
		Couple:           o.couple,
		Partner:          o.partner,
		MyAvatar:         o.myAvatar,
		Loading:          o.loading,
		OperationLoading: o.operationLoading,
	}
}

// UserID returns the observed user's id.
func (o *CoupleObserver) UserID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.userID
}

func (o *CoupleObserver) run(ctx context.Context, done chan struct{}) {
	defer close(done)

	o.load(ctx)
	o.mu.Lock()
	o.loading = false
	o.mu.Unlock()
	o.emit()

	ticker := time.NewTicker(o.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			o.poll(ctx)
		}
	}
}

// load fetches the full state: current couple, partner when active, own
// avatar. Failures leave the corresponding field nil.
func (o *CoupleObserver) load(ctx context.Context) {
	userID := o.UserID()
	if userID == "" {
		return
	}

	couple, err := o.couples.GetCurrentCouple(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to load couple state")
		return
	}

	var partner *models.PartnerInfo
	if couple != nil && couple.Status == models.CoupleStatusActive {
		partner, err = o.couples.GetPartnerInfo(ctx, userID, couple)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("Failed to load partner info")
		}
	}

	avatar, err := o.avatars.GetMyAvatar(ctx, userID)
	if err != nil {
		log.Error().Err(err).Str("user_id", userID).Msg("Failed to load avatar")
	}

	o.mu.Lock()
	o.couple = couple
	o.partner = partner
	o.myAvatar = avatar
	o.mu.Unlock()
}

// poll re-fetches the current couple and diffs on status only. An unchanged
// status discards the result without notifying.
func (o *CoupleObserver) poll(ctx context.Context) {
	userID := o.UserID()
	if userID == "" {
		return
	}

	latest, err := o.couples.GetCurrentCouple(ctx, userID)
	if err != nil {
		log.Debug().Err(err).Str("user_id", userID).Msg("Couple poll failed")
		return
	}

	o.mu.Lock()
	if coupleStatus(latest) == coupleStatus(o.couple) {
		o.mu.Unlock()
		return
	}
	o.couple = latest
	needPartner := latest != nil && latest.Status == models.CoupleStatusActive && o.partner == nil
	o.mu.Unlock()

	if needPartner {
		partner, err := o.couples.GetPartnerInfo(ctx, userID, latest)
		if err != nil {
			log.Error().Err(err).Str("user_id", userID).Msg("Failed to load partner info")
		} else {
			o.mu.Lock()
			o.partner = partner
			o.mu.Unlock()
		}
	}

	o.emit()
}

func coupleStatus(c *models.Couple) models.CoupleStatus {
	if c == nil {
		return ""
	}
	return c.Status
}

// CreateInvitation creates (or returns) the caller's invitation through the
// observer, holding OperationLoading for the duration of the call.
func (o *CoupleObserver) CreateInvitation(ctx context.Context) (*models.Couple, error) {
	o.setOperationLoading(true)
	defer o.setOperationLoading(false)

	couple, err := o.couples.CreateInvitation(ctx, o.UserID())
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	o.couple = couple
	o.mu.Unlock()
	o.emit()
	return couple, nil
}

// JoinCouple redeems an invite code through the observer and reloads the
// full state on success.
func (o *CoupleObserver) JoinCouple(ctx context.Context, code string) (*models.Couple, error) {
	o.setOperationLoading(true)
	defer o.setOperationLoading(false)

	couple, err := o.couples.JoinCouple(ctx, o.UserID(), code)
	if err != nil {
		return nil, err
	}

	o.mu.Lock()
	o.couple = couple
	o.mu.Unlock()
	o.load(ctx)
	o.emit()
	return couple, nil
}

// UpdateAvatar updates the observed user's avatar and refreshes held state.
func (o *CoupleObserver) UpdateAvatar(ctx context.Context, data models.AvatarData) error {
	o.setOperationLoading(true)
	defer o.setOperationLoading(false)

	if err := o.avatars.UpdateAvatar(ctx, o.UserID(), data); err != nil {
		return err
	}

	o.load(ctx)
	o.emit()
	return nil
}

// Refresh reloads the full state on demand.
func (o *CoupleObserver) Refresh(ctx context.Context) {
	o.load(ctx)
	o.emit()
}

func (o *CoupleObserver) setOperationLoading(v bool) {
	o.mu.Lock()
	o.operationLoading = v
	o.mu.Unlock()
	o.emit()
}

// emit invokes onChange with the current snapshot, unless the observer has
// been stopped.
func (o *CoupleObserver) emit() {
	o.mu.Lock()
	stopped := o.stopped
	snapshot := CoupleSnapshot{
		Couple:           o.couple,
		Partner:          o.partner,
		MyAvatar:         o.myAvatar,
		Loading:          o.loading,
		OperationLoading: o.operationLoading,
	}
	o.mu.Unlock()

	if stopped || o.onChange == nil {
		return
	}
	o.onChange(snapshot)
}
