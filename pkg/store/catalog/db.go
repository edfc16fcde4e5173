package catalog

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"fmt"

	"github.com/marcboeker/go-duckdb/v2"
)

const videosSchema = `
	CREATE TABLE IF NOT EXISTS videos (
		id VARCHAR PRIMARY KEY,
		title VARCHAR NOT NULL,
		object_key VARCHAR NOT NULL,
		content_type VARCHAR,
		size BIGINT,
		uploaded_at TIMESTAMP NOT NULL
	);
`

var bootQueries = []string{
	videosSchema,
}

type Settings struct {
	DbPath string
}

func NewDB(settings Settings) (*sql.DB, error) {
	c, err := duckdb.NewConnector(fmt.Sprintf("%s?threads=4", settings.DbPath), func(exec driver.ExecerContext) error {
		for _, query := range bootQueries {
			_, err := exec.ExecContext(context.Background(), query, nil)
			if err != nil {
				return err
			}
		}
		return nil
	})

	if err != nil {
		return nil, err
	}

	db := sql.OpenDB(c)
	return db, nil
}
