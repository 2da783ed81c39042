package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"tripadvisor_hotels/internal/domain"
)

func valStr(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
func valInt(p *int) any {
	if p == nil {
		return nil
	}
	return *p
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
func valJSON(b []byte) any {
	if len(b) == 0 {
		return nil
	}
	return string(b)
}

func nullStr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

func (r *Repo) UpsertHotel(ctx context.Context, h domain.HotelView) error {
	amenities := h.Amenities
	if amenities == nil {
		amenities = []string{}
	}
	amen, err := json.Marshal(amenities)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, upsertHotelSQL,
		h.ID,
		h.URL,
		valStr(h.Name),
		valF64(h.Rating),
		h.ReviewCount,
		valStr(h.Description),
		string(amen),
		valJSON(h.Raw),
	)
	return err
}

// reviewBatch keeps one multi-row INSERT well under max_allowed_packet.
const reviewBatch = 200

func (r *Repo) UpsertReviews(ctx context.Context, rs []domain.StoredReview) error {
	for start := 0; start < len(rs); start += reviewBatch {
		end := start + reviewBatch
		if end > len(rs) {
			end = len(rs)
		}
		if err := r.upsertReviewBatch(ctx, rs[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repo) upsertReviewBatch(ctx context.Context, rs []domain.StoredReview) error {
	values := make([]string, 0, len(rs))
	args := make([]any, 0, len(rs)*6)
	for _, rv := range rs {
		// (hotel_id, source_id, title, `text`, rating, trip_date)
		values = append(values, "(?,?,?,?,?,?)")
		args = append(args,
			rv.HotelID,
			rv.SourceID,
			valStr(rv.Title),
			rv.Text,
			valInt(rv.Rating),
			valStr(rv.TripDate),
		)
	}
	sqlStr := insertReviewsPrefix + strings.Join(values, ",") + insertReviewsOnDup
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *Repo) UpsertPreviews(ctx context.Context, query string, ps []domain.SearchPreview) error {
	if len(ps) == 0 {
		return nil
	}
	values := make([]string, 0, len(ps))
	args := make([]any, 0, len(ps)*3)
	for _, p := range ps {
		values = append(values, "(?,?,?)")
		args = append(args, query, p.URL, p.Name)
	}
	sqlStr := insertPreviewsPrefix + strings.Join(values, ",") + insertPreviewsOnDup
	_, err := r.db.ExecContext(ctx, sqlStr, args...)
	return err
}

func (r *Repo) LogMiss(ctx context.Context, id int64, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, id, status, reason)
	return err
}

func (r *Repo) GetHotel(ctx context.Context, id int64) (domain.HotelView, error) {
	row := r.db.QueryRowContext(ctx, getHotelSQL, id)

	var hv domain.HotelView
	var name, desc sql.NullString
	var rating sql.NullFloat64
	var amenitiesJSON, raw []byte

	if err := row.Scan(
		&hv.ID,
		&hv.URL,
		&name,
		&rating,
		&hv.ReviewCount,
		&desc,
		&amenitiesJSON,
		&raw,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.HotelView{}, domain.ErrNotFound
		}
		return domain.HotelView{}, err
	}

	hv.Name = nullStr(name)
	hv.Description = nullStr(desc)
	if rating.Valid {
		f := rating.Float64
		hv.Rating = &f
	}
	_ = json.Unmarshal(amenitiesJSON, &hv.Amenities)
	if hv.Amenities == nil {
		hv.Amenities = []string{}
	}
	if len(raw) > 0 {
		hv.Raw = json.RawMessage(raw)
	}
	return hv, nil
}

func (r *Repo) ListHotels(ctx context.Context, q domain.HotelsQuery) (domain.HotelsPage, error) {
	rows, err := r.db.QueryContext(ctx, listHotelsSQL, q.Limit)
	if err != nil {
		return domain.HotelsPage{}, err
	}
	defer rows.Close()

	out := []domain.HotelView{}
	for rows.Next() {
		var hv domain.HotelView
		var name sql.NullString
		var rating sql.NullFloat64
		if err := rows.Scan(&hv.ID, &hv.URL, &name, &rating, &hv.ReviewCount); err != nil {
			return domain.HotelsPage{}, err
		}
		hv.Name = nullStr(name)
		if rating.Valid {
			f := rating.Float64
			hv.Rating = &f
		}
		out = append(out, hv)
	}
	if err := rows.Err(); err != nil {
		return domain.HotelsPage{}, err
	}
	return domain.HotelsPage{Items: out}, nil
}

func (r *Repo) ListReviews(ctx context.Context, id int64, pg domain.PageQuery) (domain.ReviewsPage, error) {
	query := listReviewsNewestSQL
	if pg.Sort == "rating" {
		query = listReviewsRatingSQL
	}
	rows, err := r.db.QueryContext(ctx, query, id, pg.Limit)
	if err != nil {
		return domain.ReviewsPage{}, err
	}
	defer rows.Close()

	out := []domain.StoredReview{}
	for rows.Next() {
		var rv domain.StoredReview
		var (
			title    sql.NullString
			rating   sql.NullInt64
			tripDate sql.NullString
		)
		if err := rows.Scan(
			&rv.ID,
			&rv.HotelID,
			&rv.SourceID,
			&title,
			&rv.Text,
			&rating,
			&tripDate,
		); err != nil {
			return domain.ReviewsPage{}, err
		}
		rv.Title = nullStr(title)
		rv.TripDate = nullStr(tripDate)
		if rating.Valid {
			n := int(rating.Int64)
			rv.Rating = &n
		}
		out = append(out, rv)
	}
	if err := rows.Err(); err != nil {
		return domain.ReviewsPage{}, err
	}
	return domain.ReviewsPage{Items: out}, nil
}
