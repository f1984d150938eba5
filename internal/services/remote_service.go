package services

import (
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	errx "github.com/mcmusabe/blokhut-display/internal/core/error"
	"github.com/mcmusabe/blokhut-display/internal/models"
	logx "github.com/mcmusabe/blokhut-display/pkg/logger"
)

// ErrButtonNotFound is returned when no button has the given MAC.
var ErrButtonNotFound = errors.New("button not found")

// ErrButtonInactive is returned for presses on a disabled button.
var ErrButtonInactive = errors.New("button is not active")

// RemoteService manages hardware buttons that steer the carousel.
type RemoteService struct {
	database *sql.DB
	now      func() time.Time
}

// NewRemoteService creates a new remote button service.
func NewRemoteService(database *sql.DB) *RemoteService {
	return &RemoteService{database: database, now: time.Now}
}

// ValidAction reports whether a is an assignable action ("" unassigns).
func ValidAction(a string) bool {
	switch a {
	case "", models.RemoteActionNext, models.RemoteActionPrev, models.RemoteActionPause:
		return true
	default:
		return false
	}
}

// normalizeMAC uppercases and strips separators.
func normalizeMAC(macAddress string) string {
	r := strings.NewReplacer(":", "", "-", "", " ", "")
	return strings.ToUpper(r.Replace(macAddress))
}

// Register registers a button; an existing button is returned unchanged.
func (rs *RemoteService) Register(macAddress, name, action string) (*models.RemoteButton, error) {
	macAddress = normalizeMAC(macAddress)
	if len(macAddress) < 6 {
		return nil, errx.BadRequest(fmt.Errorf("invalid MAC address: %q", macAddress), "invalid MAC address")
	}
	if !ValidAction(action) {
		return nil, errx.BadRequest(fmt.Errorf("invalid action: %q", action), "action must be next, prev, pause or empty")
	}

	if existing, err := rs.GetByMAC(macAddress); err == nil {
		return existing, nil
	}

	id := fmt.Sprintf("btn_%s", macAddress[len(macAddress)-6:])
	now := rs.now()

	query := `INSERT INTO remote_buttons
		(id, mac_address, name, action, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`
	if _, err := rs.database.Exec(query, id, macAddress, name, action, true, now, now); err != nil {
		return nil, fmt.Errorf("failed to insert button: %w", err)
	}

	logx.Info().Str("mac", macAddress).Str("id", id).Str("action", action).Msg("remote button registered")
	return rs.GetByMAC(macAddress)
}

const selectButton = `SELECT id, mac_address, name, action, is_active, press_count,
	last_press, created_at, updated_at FROM remote_buttons`

type scanner interface {
	Scan(dest ...any) error
}

func scanButton(row scanner) (*models.RemoteButton, error) {
	var button models.RemoteButton
	var lastPress sql.NullTime
	err := row.Scan(
		&button.ID,
		&button.MACAddress,
		&button.Name,
		&button.Action,
		&button.IsActive,
		&button.PressCount,
		&lastPress,
		&button.CreatedAt,
		&button.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastPress.Valid {
		button.LastPress = lastPress.Time
	}
	return &button, nil
}

// GetByMAC returns a button by its MAC address.
func (rs *RemoteService) GetByMAC(macAddress string) (*models.RemoteButton, error) {
	macAddress = normalizeMAC(macAddress)
	button, err := scanButton(rs.database.QueryRow(selectButton+` WHERE mac_address = ?`, macAddress))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errx.NotFound(fmt.Errorf("%w: %s", ErrButtonNotFound, macAddress), "button not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query button: %w", err)
	}
	return button, nil
}

// List returns all buttons, newest first.
func (rs *RemoteService) List() ([]*models.RemoteButton, error) {
	rows, err := rs.database.Query(selectButton + ` ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query buttons: %w", err)
	}
	defer rows.Close()

	buttons := []*models.RemoteButton{}
	for rows.Next() {
		button, err := scanButton(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan button: %w", err)
		}
		buttons = append(buttons, button)
	}
	return buttons, rows.Err()
}

// Assign sets the carousel action a button triggers.
func (rs *RemoteService) Assign(macAddress, action string) error {
	if !ValidAction(action) {
		return errx.BadRequest(fmt.Errorf("invalid action: %q", action), "action must be next, prev, pause or empty")
	}
	macAddress = normalizeMAC(macAddress)

	result, err := rs.database.Exec(`UPDATE remote_buttons SET action = ?, updated_at = ? WHERE mac_address = ?`,
		action, rs.now(), macAddress)
	if err != nil {
		return fmt.Errorf("failed to update button: %w", err)
	}
	if err := requireRow(result, macAddress); err != nil {
		return err
	}

	logx.Info().Str("mac", macAddress).Str("action", action).Msg("remote button assigned")
	return nil
}

// SetActive enables or disables a button.
func (rs *RemoteService) SetActive(macAddress string, active bool) error {
	macAddress = normalizeMAC(macAddress)
	result, err := rs.database.Exec(`UPDATE remote_buttons SET is_active = ?, updated_at = ? WHERE mac_address = ?`,
		active, rs.now(), macAddress)
	if err != nil {
		return fmt.Errorf("failed to update button: %w", err)
	}
	return requireRow(result, macAddress)
}

// RecordPress counts a press and returns the updated button.
func (rs *RemoteService) RecordPress(macAddress string) (*models.RemoteButton, error) {
	button, err := rs.GetByMAC(macAddress)
	if err != nil {
		return nil, err
	}
	if !button.IsActive {
		return nil, errx.New(fmt.Errorf("%w: %s", ErrButtonInactive, button.MACAddress), http.StatusConflict, "button is not active")
	}

	now := rs.now()
	_, err = rs.database.Exec(`UPDATE remote_buttons
		SET press_count = press_count + 1, last_press = ?, updated_at = ?
		WHERE mac_address = ?`, now, now, button.MACAddress)
	if err != nil {
		return nil, fmt.Errorf("failed to update button press: %w", err)
	}

	button.PressCount++
	button.LastPress = now
	button.UpdatedAt = now
	return button, nil
}

// Delete removes a button.
func (rs *RemoteService) Delete(macAddress string) error {
	macAddress = normalizeMAC(macAddress)
	result, err := rs.database.Exec(`DELETE FROM remote_buttons WHERE mac_address = ?`, macAddress)
	if err != nil {
		return fmt.Errorf("failed to delete button: %w", err)
	}
	if err := requireRow(result, macAddress); err != nil {
		return err
	}
	logx.Info().Str("mac", macAddress).Msg("remote button deleted")
	return nil
}

func requireRow(result sql.Result, macAddress string) error {
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return errx.NotFound(fmt.Errorf("%w: %s", ErrButtonNotFound, macAddress), "button not found")
	}
	return nil
}
