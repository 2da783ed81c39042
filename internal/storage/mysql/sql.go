package mysql

const upsertHotelSQL = `
INSERT INTO hotels
  (id, url, name, rating, review_count, description, amenities, raw)
VALUES
  (?, ?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  url          = VALUES(url),
  name         = COALESCE(VALUES(name), hotels.name),
  rating       = COALESCE(VALUES(rating), hotels.rating),
  review_count = VALUES(review_count),
  description  = COALESCE(VALUES(description), hotels.description),
  amenities    = VALUES(amenities),
  raw          = VALUES(raw),
  updated_at   = CURRENT_TIMESTAMP
`

// Note: `text` is reserved; keep it quoted everywhere.
const insertReviewsPrefix = "INSERT INTO reviews\n  (hotel_id, source_id, title, `text`, rating, trip_date)\nVALUES "

// source_id is a content hash, so a duplicate only ever fills in missing columns.
const insertReviewsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  title     = COALESCE(VALUES(title), reviews.title),\n" +
	"  rating    = COALESCE(VALUES(rating), reviews.rating),\n" +
	"  trip_date = COALESCE(VALUES(trip_date), reviews.trip_date)\n"

const insertPreviewsPrefix = "INSERT INTO search_previews\n  (query, url, name)\nVALUES "

const insertPreviewsOnDup = " ON DUPLICATE KEY UPDATE\n" +
	"  name    = VALUES(name),\n" +
	"  seen_at = CURRENT_TIMESTAMP\n"

const insertMissSQL = `
INSERT INTO scrape_misses (id, http_status, reason)
VALUES (?, ?, ?)
ON DUPLICATE KEY UPDATE
  http_status = VALUES(http_status),
  reason      = VALUES(reason),
  seen_at     = CURRENT_TIMESTAMP
`

// -----------------------------------------------------------------------------
// READ QUERIES
// -----------------------------------------------------------------------------

const getHotelSQL = `
SELECT
  id,
  url,
  name,
  rating,
  review_count,
  description,
  amenities,
  raw
FROM hotels
WHERE id = ?
`

const listHotelsSQL = `
SELECT id, url, name, rating, review_count
FROM hotels
ORDER BY id
LIMIT ?
`

const listReviewsNewestSQL = "SELECT id, hotel_id, source_id, title, `text`, rating, trip_date\n" +
	"FROM reviews\nWHERE hotel_id = ?\nORDER BY created_at DESC, id DESC\nLIMIT ?"

const listReviewsRatingSQL = "SELECT id, hotel_id, source_id, title, `text`, rating, trip_date\n" +
	"FROM reviews\nWHERE hotel_id = ?\nORDER BY rating IS NULL, rating DESC, id DESC\nLIMIT ?"
