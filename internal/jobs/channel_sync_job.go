package jobs

import (
	"context"
	"fmt"
	"log"
	"time"

	"staylink/channelsync/internal/constants"
	"staylink/channelsync/internal/db/repositories"
	"staylink/channelsync/internal/logging"
	"staylink/channelsync/internal/metrics"
	"staylink/channelsync/internal/models/dtos"
	gormModels "staylink/channelsync/internal/models/gorm"
	"staylink/channelsync/internal/providers"
	"staylink/channelsync/internal/services"

	"golang.org/x/sync/errgroup"
)

const (
	defaultChannelTimeout     = 30 * time.Second
	defaultPricingHorizonDays = 90
)

// ChannelSyncJob drives calendar, pricing and booking synchronization
// between the local calendar store and the registered channel
// platforms. Each sync operation performs exactly one bounded round
// trip to the channel and appends exactly one immutable sync log row.
//
// Syncs are full-refresh reconciliations of the channel's reported
// state, never incremental diffs, so re-running after a partial
// failure is always safe. The job performs no retries of its own.
type ChannelSyncJob struct {
	integrationRepo *repositories.IntegrationRepo
	propertyRepo    *repositories.PropertyRepo
	syncLogRepo     *repositories.SyncLogRepo
	calendar        *services.CalendarStore
	pricing         *services.PricingService
	bookings        *services.BookingService
	registry        *providers.ClientRegistry
	metricsReg      *metrics.MetricsRegistry

	ChannelTimeout     time.Duration
	PricingHorizonDays int
}

// NewChannelSyncJob creates the orchestrator. metricsReg may be nil in
// tests.
func NewChannelSyncJob(
	integrationRepo *repositories.IntegrationRepo,
	propertyRepo *repositories.PropertyRepo,
	syncLogRepo *repositories.SyncLogRepo,
	calendar *services.CalendarStore,
	pricing *services.PricingService,
	bookings *services.BookingService,
	registry *providers.ClientRegistry,
	metricsReg *metrics.MetricsRegistry,
) *ChannelSyncJob {
	return &ChannelSyncJob{
		integrationRepo:    integrationRepo,
		propertyRepo:       propertyRepo,
		syncLogRepo:        syncLogRepo,
		calendar:           calendar,
		pricing:            pricing,
		bookings:           bookings,
		registry:           registry,
		metricsReg:         metricsReg,
		ChannelTimeout:     defaultChannelTimeout,
		PricingHorizonDays: defaultPricingHorizonDays,
	}
}

// resolve loads the integration and its channel client.
func (j *ChannelSyncJob) resolve(ctx context.Context, integrationID string) (*gormModels.Integration, providers.ChannelClient, error) {
	integ, err := j.integrationRepo.GetByID(ctx, integrationID)
	if err != nil {
		return nil, nil, err
	}

	client, ok := j.registry.Get(integ.Platform)
	if !ok {
		return nil, nil, &constants.ChannelError{
			Platform: integ.Platform,
			Op:       "resolve client",
			Err:      fmt.Errorf("no channel client registered for platform %s", integ.Platform),
		}
	}
	return integ, client, nil
}

// ResolveIntegration validates that the integration exists and has a
// registered channel client, without running a sync.
func (j *ChannelSyncJob) ResolveIntegration(ctx context.Context, integrationID string) (*gormModels.Integration, providers.ChannelClient, error) {
	return j.resolve(ctx, integrationID)
}

// finish appends the sync log row, records metrics, and advances
// LastSyncDate unless the sync failed outright.
func (j *ChannelSyncJob) finish(ctx context.Context, integ *gormModels.Integration, syncType, status string, processed, failed int, message string, start time.Time) *dtos.SyncResult {
	end := time.Now()

	entry := &gormModels.SyncLog{
		IntegrationID:    integ.ID,
		PropertyID:       integ.PropertyID,
		Platform:         integ.Platform,
		SyncType:         syncType,
		Status:           status,
		RecordsProcessed: processed,
		RecordsFailed:    failed,
		Message:          message,
		StartTime:        start,
		EndTime:          end,
	}
	if err := j.syncLogRepo.Append(ctx, entry); err != nil {
		log.Printf("[ChannelSyncJob] Error appending sync log for integration %s: %v", integ.ID, err)
	}

	if j.metricsReg != nil {
		j.metricsReg.SyncsTotal.WithLabelValues(syncType, status).Inc()
		j.metricsReg.SyncDuration.WithLabelValues(syncType).Observe(end.Sub(start).Seconds())
	}

	if status != constants.SyncStatusFailed {
		if err := j.integrationRepo.MarkSynced(ctx, integ.ID, end); err != nil {
			log.Printf("[ChannelSyncJob] Error advancing last sync date for integration %s: %v", integ.ID, err)
		}
	}

	logging.WithSync(syncType, integ.ID, integ.PropertyID, integ.Platform).Infow("Sync finished",
		"status", status,
		"records_processed", processed,
		"records_failed", failed,
		"duration_ms", end.Sub(start).Milliseconds(),
	)

	return &dtos.SyncResult{
		SyncType:         syncType,
		Status:           status,
		RecordsProcessed: processed,
		RecordsFailed:    failed,
		Message:          message,
	}
}

func statusFor(failed int) string {
	if failed > 0 {
		return constants.SyncStatusPartial
	}
	return constants.SyncStatusSuccess
}

// SyncCalendar pulls the channel's reported calendar and reconciles it
// into the store: reported-unavailable days are blocked (owned days
// are skipped, never overwritten), reported-available days are
// unblocked, reported prices are written. On a channel error the sync
// log records FAILED, LastSyncDate is not advanced, and the error
// propagates to the caller.
func (j *ChannelSyncJob) SyncCalendar(ctx context.Context, integrationID string) (*dtos.SyncResult, error) {
	integ, client, err := j.resolve(ctx, integrationID)
	if err != nil {
		return nil, err
	}
	start := time.Now()

	cctx, cancel := context.WithTimeout(ctx, j.ChannelTimeout)
	days, err := client.FetchCalendar(cctx, integ.PropertyID)
	cancel()
	if err != nil {
		j.finish(ctx, integ, constants.SyncTypeCalendar, constants.SyncStatusFailed, 0, 0, err.Error(), start)
		return nil, err
	}

	processed, failed := 0, 0
	for _, day := range days {
		date, perr := time.ParseInLocation(services.DateFormat, day.Date, time.UTC)
		if perr != nil {
			failed++
			continue
		}
		next := date.AddDate(0, 0, 1)

		var derr error
		if day.IsAvailable {
			derr = j.calendar.UnblockRange(ctx, integ.PropertyID, date, next)
		} else {
			// BlockRange reports owned days in SkippedOwned; a skipped
			// day is a correctly protected booking, not a failure.
			_, derr = j.calendar.BlockRange(ctx, integ.PropertyID, date, next, "channel:"+integ.Platform)
		}
		if derr == nil && day.Price != nil {
			derr = j.calendar.SetPrice(ctx, integ.PropertyID, date, *day.Price)
		}

		if derr != nil {
			failed++
			continue
		}
		processed++
	}

	result := j.finish(ctx, integ, constants.SyncTypeCalendar, statusFor(failed), processed, failed, "", start)
	return result, nil
}

// SyncPricing computes the rule-adjusted price for every date in the
// pricing horizon, writes it to the store, then pushes the horizon to
// the channel in one round trip.
func (j *ChannelSyncJob) SyncPricing(ctx context.Context, integrationID string) (*dtos.SyncResult, error) {
	integ, client, err := j.resolve(ctx, integrationID)
	if err != nil {
		return nil, err
	}
	start := time.Now()

	property, err := j.propertyRepo.GetByID(ctx, integ.PropertyID)
	if err != nil {
		j.finish(ctx, integ, constants.SyncTypePricing, constants.SyncStatusFailed, 0, 0, err.Error(), start)
		return nil, err
	}

	rules, err := j.pricing.RulesSnapshot(ctx, integ.PropertyID)
	if err != nil {
		j.finish(ctx, integ, constants.SyncTypePricing, constants.SyncStatusFailed, 0, 0, err.Error(), start)
		return nil, err
	}

	horizonStart := services.NormalizeDate(time.Now().UTC())
	horizonEnd := horizonStart.AddDate(0, 0, j.PricingHorizonDays)

	processed, failed := 0, 0
	for date := horizonStart; date.Before(horizonEnd); date = date.AddDate(0, 0, 1) {
		price := services.CalculatePrice(rules, date, property.BasePrice)
		if err := j.calendar.SetPrice(ctx, integ.PropertyID, date, price); err != nil {
			failed++
			continue
		}
		processed++
	}
	if j.metricsReg != nil {
		j.metricsReg.PricingEvaluations.Add(float64(processed))
	}

	// Read the horizon back so the push reflects the store's state,
	// including availability set by blocks and claims.
	stored, err := j.calendar.Query(ctx, integ.PropertyID, horizonStart, horizonEnd)
	if err != nil {
		j.finish(ctx, integ, constants.SyncTypePricing, constants.SyncStatusFailed, processed, failed, err.Error(), start)
		return nil, err
	}
	storedByDate := make(map[string]gormModels.CalendarDay, len(stored))
	for _, d := range stored {
		storedByDate[services.NormalizeDate(d.Date).Format(services.DateFormat)] = d
	}

	push := make([]providers.ChannelCalendarDay, 0, j.PricingHorizonDays)
	for date := horizonStart; date.Before(horizonEnd); date = date.AddDate(0, 0, 1) {
		key := date.Format(services.DateFormat)
		day := providers.ChannelCalendarDay{Date: key, IsAvailable: true}
		if row, ok := storedByDate[key]; ok {
			day.IsAvailable = row.IsAvailable
			day.Price = row.Price
		}
		push = append(push, day)
	}

	cctx, cancel := context.WithTimeout(ctx, j.ChannelTimeout)
	err = client.PushCalendar(cctx, integ.PropertyID, push)
	cancel()
	if err != nil {
		j.finish(ctx, integ, constants.SyncTypePricing, constants.SyncStatusFailed, 0, 0, err.Error(), start)
		return nil, err
	}

	result := j.finish(ctx, integ, constants.SyncTypePricing, statusFor(failed), processed, failed, "", start)
	return result, nil
}

// SyncBookings pulls the channel's bookings and runs each through the
// importer. A booking rejected with date conflicts is first-writer-
// wins behavior, counted as processed; only persistence errors count
// as failed.
func (j *ChannelSyncJob) SyncBookings(ctx context.Context, integrationID string) (*dtos.SyncResult, error) {
	integ, client, err := j.resolve(ctx, integrationID)
	if err != nil {
		return nil, err
	}
	start := time.Now()

	cctx, cancel := context.WithTimeout(ctx, j.ChannelTimeout)
	channelBookings, err := client.FetchBookings(cctx, integ.PropertyID)
	cancel()
	if err != nil {
		j.finish(ctx, integ, constants.SyncTypeBooking, constants.SyncStatusFailed, 0, 0, err.Error(), start)
		return nil, err
	}

	processed, failed, conflicts := 0, 0, 0
	for _, cb := range channelBookings {
		checkIn, errIn := time.ParseInLocation(services.DateFormat, cb.CheckInDate, time.UTC)
		checkOut, errOut := time.ParseInLocation(services.DateFormat, cb.CheckOutDate, time.UTC)
		if errIn != nil || errOut != nil {
			failed++
			continue
		}

		if cb.Status == constants.BookingStatusCancelled {
			if err := j.cancelReportedBooking(ctx, integ, cb.ExternalBookingID); err != nil {
				failed++
			} else {
				processed++
			}
			continue
		}

		result, err := j.bookings.ImportBooking(ctx, services.ImportBookingParams{
			PropertyID:        integ.PropertyID,
			Platform:          integ.Platform,
			ExternalBookingID: cb.ExternalBookingID,
			CheckInDate:       checkIn,
			CheckOutDate:      checkOut,
			GuestRef:          cb.GuestRef,
			TotalAmount:       cb.TotalAmount,
		})
		if err != nil {
			failed++
			continue
		}
		if !result.Claim.OK {
			conflicts++
			if j.metricsReg != nil {
				j.metricsReg.ClaimConflicts.Inc()
			}
		}
		processed++
	}
	if j.metricsReg != nil {
		j.metricsReg.BookingsImported.Add(float64(processed))
	}

	message := ""
	if conflicts > 0 {
		message = fmt.Sprintf("%d booking(s) rejected with date conflicts", conflicts)
	}

	result := j.finish(ctx, integ, constants.SyncTypeBooking, statusFor(failed), processed, failed, message, start)
	return result, nil
}

// cancelReportedBooking handles a channel reporting a booking as
// cancelled: if we hold it, release its nights.
func (j *ChannelSyncJob) cancelReportedBooking(ctx context.Context, integ *gormModels.Integration, externalID string) error {
	existing, err := j.bookings.FindByExternalID(ctx, integ.PropertyID, integ.Platform, externalID)
	if err != nil {
		return err
	}
	if existing == nil || existing.Status == constants.BookingStatusCancelled {
		return nil
	}
	_, err = j.bookings.CancelBooking(ctx, existing.ID)
	return err
}

// SyncAll runs the three sync operations for one integration. Bookings
// go first so the channel's own confirmed bookings claim their nights
// before the calendar sync blocks the same dates; otherwise a block
// landing first would cancel the channel's own booking. Cross-channel
// ordering stays first-writer-wins. Calendar and pricing then fan out
// concurrently; the calendar store's per-property lock serializes
// their mutations. All three run to completion and append their log
// rows even when one fails; the earliest error is returned.
func (j *ChannelSyncJob) SyncAll(ctx context.Context, integrationID string) error {
	_, bookErr := j.SyncBookings(ctx, integrationID)

	var g errgroup.Group
	g.Go(func() error {
		_, err := j.SyncCalendar(ctx, integrationID)
		return err
	})
	g.Go(func() error {
		_, err := j.SyncPricing(ctx, integrationID)
		return err
	})
	err := g.Wait()

	if bookErr != nil {
		return bookErr
	}
	return err
}

// Run sweeps every active integration. Disabled integrations are
// excluded; a failing integration is logged and skipped so the sweep
// continues.
func (j *ChannelSyncJob) Run(ctx context.Context) error {
	start := time.Now()
	log.Printf("[ChannelSyncJob] Starting sync sweep at %s", start.Format(time.RFC3339))

	integrations, err := j.integrationRepo.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active integrations: %w", err)
	}

	if len(integrations) == 0 {
		log.Printf("[ChannelSyncJob] No active integrations found")
		return nil
	}

	synced := 0
	for _, integ := range integrations {
		if err := j.SyncAll(ctx, integ.ID); err != nil {
			log.Printf("[ChannelSyncJob] Error syncing integration %s (%s): %v", integ.ID, integ.Platform, err)
			continue
		}
		synced++
	}

	log.Printf("[ChannelSyncJob] Completed sweep in %s. Integrations synced: %d/%d",
		time.Since(start).Truncate(time.Millisecond), synced, len(integrations))
	return nil
}

// RunScheduled runs the sweep on a fixed cadence until ctx is done.
func (j *ChannelSyncJob) RunScheduled(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	if err := j.Run(ctx); err != nil {
		log.Printf("[ChannelSyncJob] Error in initial run: %v", err)
	}

	for {
		select {
		case <-ticker.C:
			if err := j.Run(ctx); err != nil {
				log.Printf("[ChannelSyncJob] Error in scheduled run: %v", err)
			}
		case <-ctx.Done():
			log.Printf("[ChannelSyncJob] Shutting down scheduled sync")
			return
		}
	}
}
