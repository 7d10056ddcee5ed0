package db

import (
	"context"
	"database/sql"
)

type DBTX interface {
	ExecContext(context.Context, string, ...interface{}) (sql.Result, error)
	QueryContext(context.Context, string, ...interface{}) (*sql.Rows, error)
	QueryRowContext(context.Context, string, ...interface{}) *sql.Row
}

func New(db DBTX) *Queries {
	return &Queries{db: db}
}

type Queries struct {
	db DBTX
}

func (q *Queries) WithTx(tx *sql.Tx) *Queries {
	return &Queries{db: tx}
}

const upsertDocument = `
INSERT INTO documents (id, source, url, kind, meeting_date, text_content, markdown_content, fetched_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (id) DO UPDATE SET
    text_content = excluded.text_content,
    markdown_content = excluded.markdown_content,
    fetched_at = excluded.fetched_at
`

type UpsertDocumentParams struct {
	ID              string
	Source          string
	URL             string
	Kind            string
	MeetingDate     string
	TextContent     string
	MarkdownContent string
	FetchedAt       int64
}

func (q *Queries) UpsertDocument(ctx context.Context, arg UpsertDocumentParams) error {
	_, err := q.db.ExecContext(ctx, upsertDocument,
		arg.ID,
		arg.Source,
		arg.URL,
		arg.Kind,
		arg.MeetingDate,
		arg.TextContent,
		arg.MarkdownContent,
		arg.FetchedAt,
	)
	return err
}

const getDocument = `
SELECT id, source, url, kind, meeting_date, text_content, markdown_content, fetched_at
FROM documents WHERE id = ?
`

type Document struct {
	ID              string
	Source          string
	URL             string
	Kind            string
	MeetingDate     string
	TextContent     string
	MarkdownContent string
	FetchedAt       int64
}

func (q *Queries) GetDocument(ctx context.Context, id string) (Document, error) {
	row := q.db.QueryRowContext(ctx, getDocument, id)
	var d Document
	err := row.Scan(
		&d.ID,
		&d.Source,
		&d.URL,
		&d.Kind,
		&d.MeetingDate,
		&d.TextContent,
		&d.MarkdownContent,
		&d.FetchedAt,
	)
	return d, err
}

const countDocuments = `SELECT count(*) FROM documents`

func (q *Queries) CountDocuments(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countDocuments)
	var n int64
	err := row.Scan(&n)
	return n, err
}

// items are keyed by their natural key so re-processing a document is an
// idempotent upsert, never a duplicate row
const upsertItem = `
INSERT INTO items (meeting_date, file_number, title, description, result, ayes, noes, abstains, absents, excused, annotations)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT (meeting_date, file_number) DO UPDATE SET
    title = excluded.title,
    description = excluded.description,
    result = excluded.result,
    ayes = excluded.ayes,
    noes = excluded.noes,
    abstains = excluded.abstains,
    absents = excluded.absents,
    excused = excluded.excused,
    annotations = excluded.annotations
RETURNING id
`

type UpsertItemParams struct {
	MeetingDate string
	FileNumber  string
	Title       string
	Description string
	Result      string
	Ayes        sql.NullInt64
	Noes        sql.NullInt64
	Abstains    sql.NullInt64
	Absents     sql.NullInt64
	Excused     sql.NullInt64
	Annotations string
}

func (q *Queries) UpsertItem(ctx context.Context, arg UpsertItemParams) (int64, error) {
	row := q.db.QueryRowContext(ctx, upsertItem,
		arg.MeetingDate,
		arg.FileNumber,
		arg.Title,
		arg.Description,
		arg.Result,
		arg.Ayes,
		arg.Noes,
		arg.Abstains,
		arg.Absents,
		arg.Excused,
		arg.Annotations,
	)
	var id int64
	err := row.Scan(&id)
	return id, err
}

type Item struct {
	ID          int64
	MeetingDate string
	FileNumber  string
	Title       string
	Description string
	Result      string
	Ayes        sql.NullInt64
	Noes        sql.NullInt64
	Abstains    sql.NullInt64
	Absents     sql.NullInt64
	Excused     sql.NullInt64
	Annotations string
}

const getItemByKey = `
SELECT id, meeting_date, file_number, title, description, result, ayes, noes, abstains, absents, excused, annotations
FROM items WHERE meeting_date = ? AND file_number = ?
`

func (q *Queries) GetItemByKey(ctx context.Context, meetingDate, fileNumber string) (Item, error) {
	row := q.db.QueryRowContext(ctx, getItemByKey, meetingDate, fileNumber)
	var it Item
	err := row.Scan(
		&it.ID,
		&it.MeetingDate,
		&it.FileNumber,
		&it.Title,
		&it.Description,
		&it.Result,
		&it.Ayes,
		&it.Noes,
		&it.Abstains,
		&it.Absents,
		&it.Excused,
		&it.Annotations,
	)
	return it, err
}

const countItems = `SELECT count(*) FROM items`

func (q *Queries) CountItems(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countItems)
	var n int64
	err := row.Scan(&n)
	return n, err
}

const countVotes = `SELECT count(*) FROM votes`

func (q *Queries) CountVotes(ctx context.Context) (int64, error) {
	row := q.db.QueryRowContext(ctx, countVotes)
	var n int64
	err := row.Scan(&n)
	return n, err
}

const deleteItemVotes = `DELETE FROM votes WHERE item_id = ?`

func (q *Queries) DeleteItemVotes(ctx context.Context, itemID int64) error {
	_, err := q.db.ExecContext(ctx, deleteItemVotes, itemID)
	return err
}

const createVote = `
INSERT INTO votes (item_id, member, choice, unresolved)
VALUES (?, ?, ?, ?)
ON CONFLICT (item_id, member) DO UPDATE SET
    choice = excluded.choice,
    unresolved = excluded.unresolved
`

type CreateVoteParams struct {
	ItemID     int64
	Member     string
	Choice     string
	Unresolved bool
}

func (q *Queries) CreateVote(ctx context.Context, arg CreateVoteParams) error {
	_, err := q.db.ExecContext(ctx, createVote,
		arg.ItemID,
		arg.Member,
		arg.Choice,
		arg.Unresolved,
	)
	return err
}

type Vote struct {
	ItemID     int64
	Member     string
	Choice     string
	Unresolved bool
}

const getItemVotes = `
SELECT item_id, member, choice, unresolved FROM votes WHERE item_id = ? ORDER BY member
`

func (q *Queries) GetItemVotes(ctx context.Context, itemID int64) ([]Vote, error) {
	rows, err := q.db.QueryContext(ctx, getItemVotes, itemID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Vote
	for rows.Next() {
		var v Vote
		if err := rows.Scan(&v.ItemID, &v.Member, &v.Choice, &v.Unresolved); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
