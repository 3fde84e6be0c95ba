// Query code for db/queries in the layout of sqlc's pgx/v5 output.
// Keep it in step with the .sql files, or rerun `sqlc generate` (sqlc.yaml).
// source: catalog.sql

package db

import (
	"context"
)

const assetExists = `-- name: AssetExists :one
SELECT CASE $2::text
    WHEN 'beat' THEN EXISTS (SELECT 1 FROM beats WHERE id = $1)
    WHEN 'beat_pack' THEN EXISTS (SELECT 1 FROM beat_packs WHERE id = $1)
    ELSE FALSE
END
`

type AssetExistsParams struct {
	AssetID   int64  `json:"asset_id"`
	AssetType string `json:"asset_type"`
}

func (q *Queries) AssetExists(ctx context.Context, arg AssetExistsParams) (bool, error) {
	row := q.db.QueryRow(ctx, assetExists, arg.AssetID, arg.AssetType)
	var exists bool
	err := row.Scan(&exists)
	return exists, err
}

const getAssetByObjectKey = `-- name: GetAssetByObjectKey :one
SELECT id AS asset_id, 'beat'::text AS asset_type FROM beats WHERE audio_key = $1
UNION ALL
SELECT id AS asset_id, 'beat_pack'::text AS asset_type FROM beat_packs WHERE archive_key = $1
LIMIT 1
`

type GetAssetByObjectKeyRow struct {
	AssetID   int64  `json:"asset_id"`
	AssetType string `json:"asset_type"`
}

func (q *Queries) GetAssetByObjectKey(ctx context.Context, objectKey string) (GetAssetByObjectKeyRow, error) {
	row := q.db.QueryRow(ctx, getAssetByObjectKey, objectKey)
	var i GetAssetByObjectKeyRow
	err := row.Scan(&i.AssetID, &i.AssetType)
	return i, err
}

const getBeat = `-- name: GetBeat :one
SELECT id, title, producer, bpm, price, audio_key, preview_key, cover_key, created_at
FROM beats
WHERE id = $1
`

func (q *Queries) GetBeat(ctx context.Context, id int64) (Beat, error) {
	row := q.db.QueryRow(ctx, getBeat, id)
	var i Beat
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Producer,
		&i.Bpm,
		&i.Price,
		&i.AudioKey,
		&i.PreviewKey,
		&i.CoverKey,
		&i.CreatedAt,
	)
	return i, err
}

const getBeatPack = `-- name: GetBeatPack :one
SELECT id, title, price, archive_key, cover_key, created_at
FROM beat_packs
WHERE id = $1
`

func (q *Queries) GetBeatPack(ctx context.Context, id int64) (BeatPack, error) {
	row := q.db.QueryRow(ctx, getBeatPack, id)
	var i BeatPack
	err := row.Scan(
		&i.ID,
		&i.Title,
		&i.Price,
		&i.ArchiveKey,
		&i.CoverKey,
		&i.CreatedAt,
	)
	return i, err
}

const listBeatPacks = `-- name: ListBeatPacks :many
SELECT id, title, price, archive_key, cover_key, created_at
FROM beat_packs
ORDER BY created_at DESC, id DESC
`

func (q *Queries) ListBeatPacks(ctx context.Context) ([]BeatPack, error) {
	rows, err := q.db.Query(ctx, listBeatPacks)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []BeatPack
	for rows.Next() {
		var i BeatPack
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.Price,
			&i.ArchiveKey,
			&i.CoverKey,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listBeats = `-- name: ListBeats :many
SELECT id, title, producer, bpm, price, audio_key, preview_key, cover_key, created_at
FROM beats
ORDER BY created_at DESC, id DESC
`

func (q *Queries) ListBeats(ctx context.Context) ([]Beat, error) {
	rows, err := q.db.Query(ctx, listBeats)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Beat
	for rows.Next() {
		var i Beat
		if err := rows.Scan(
			&i.ID,
			&i.Title,
			&i.Producer,
			&i.Bpm,
			&i.Price,
			&i.AudioKey,
			&i.PreviewKey,
			&i.CoverKey,
			&i.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, i)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
