package activitylogs

import (
	"context"
	"database/sql"
	"net"

	db "github.com/evscomercial/storefront-backend/db/sqlc"
	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"
)

type ActivityLog struct {
	store *db.Store
}

func NewActivityLog(store *db.Store) *ActivityLog {
	return &ActivityLog{
		store: store,
	}
}

type CreateActivityLogParams struct {
	UserID     *uuid.UUID
	Action     string
	Path       string
	StatusCode int
	IPAddress  string
	UserAgent  string
}

func (a *ActivityLog) Create(ctx context.Context, params CreateActivityLogParams) (db.ActivityLog, error) {
	return a.store.CreateActivityLog(ctx, db.CreateActivityLogParams{
		UserID:     toNullUUID(params.UserID),
		Action:     params.Action,
		Path:       params.Path,
		StatusCode: int32(params.StatusCode),
		IpAddress:  toInet(params.IPAddress),
		UserAgent:  toNullString(params.UserAgent),
	})
}

func (a *ActivityLog) GetByUser(ctx context.Context, userID uuid.UUID, limit int32) ([]db.ActivityLog, error) {
	return a.store.ListActivityLogsByUser(ctx, db.ListActivityLogsByUserParams{
		UserID: toNullUUID(&userID),
		Limit:  limit,
	})
}

func toNullUUID(id *uuid.UUID) uuid.NullUUID {
	if id == nil {
		return uuid.NullUUID{}
	}
	return uuid.NullUUID{UUID: *id, Valid: true}
}

func toNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func toInet(ip string) pqtype.Inet {
	if ip == "" {
		return pqtype.Inet{Valid: false}
	}

	// Try parsing as CIDR (e.g., "192.168.1.0/24")
	if _, ipNet, err := net.ParseCIDR(ip); err == nil {
		return pqtype.Inet{
			IPNet: *ipNet,
			Valid: true,
		}
	}

	if parsedIP := net.ParseIP(ip); parsedIP != nil {
		var mask net.IPMask
		if parsedIP.To4() != nil {
			parsedIP = parsedIP.To4()
			mask = net.CIDRMask(32, 32)
		} else {
			mask = net.CIDRMask(128, 128)
		}
		return pqtype.Inet{
			IPNet: net.IPNet{IP: parsedIP, Mask: mask},
			Valid: true,
		}
	}

	return pqtype.Inet{Valid: false}
}
