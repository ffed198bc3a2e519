package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"workchat/domain"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"
	"github.com/mama165/sdk-go/database"
	"github.com/olekukonko/tablewriter"
)

// Keyspace-aware dump of a workchat badger store. Defaults to the message
// timeline; pass -prefix conv:, convindex:, member:, notif: etc. to inspect
// the other entities.
func main() {
	dbPath := flag.String("db", database.DefaultPath, "Path to badger DB")
	prefix := flag.String("prefix", "msg:", "Prefix to scan")
	flag.Parse()

	db, err := openDB(*dbPath)
	if err != nil {
		log.Fatal("Error while opening Badger: ", err)
	}
	defer db.Close()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Key", "Type", "Timestamp", "Entity ID", "Detail"})
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetCenterSeparator("")
	table.SetColumnSeparator("")
	table.SetRowSeparator("")
	table.SetHeaderLine(false)
	table.SetBorder(false)
	table.SetTablePadding("\t")

	err = db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefixBytes := []byte(*prefix)
		for it.Seek(prefixBytes); it.ValidForPrefix(prefixBytes); it.Next() {
			item := it.Item()
			rawKey := string(item.Key())

			// Secondary index rows hold pointers, not documents.
			if strings.HasPrefix(rawKey, "idx:") {
				continue
			}

			err := item.Value(func(v []byte) error {
				table.Append(describe(rawKey, v))
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Fatal(err)
	}

	table.Render()
}

func describe(rawKey string, value []byte) []string {
	switch {
	case strings.HasPrefix(rawKey, "msg:"):
		var m domain.Message
		if err := json.Unmarshal(value, &m); err != nil {
			return errorRow(rawKey, err)
		}
		kind := "CHAT"
		if m.Kind == domain.KindPoll {
			kind = "POLL"
		}
		if m.IsDeleted {
			kind += " (deleted)"
		}
		return []string{rawKey, kind, m.CreatedAt.Format(time.TimeOnly), shortID(m.ID.String()), m.Preview()}

	case strings.HasPrefix(rawKey, "conv:"):
		var c domain.Conversation
		if err := json.Unmarshal(value, &c); err != nil {
			return errorRow(rawKey, err)
		}
		return []string{rawKey, strings.ToUpper(string(c.Type)), c.CreatedAt.Format(time.TimeOnly), shortID(c.ID.String()), c.Name}

	case strings.HasPrefix(rawKey, "convindex:"):
		var i domain.Index
		if err := json.Unmarshal(value, &i); err != nil {
			return errorRow(rawKey, err)
		}
		return []string{rawKey, "INDEX", i.LastMessageAt.Format(time.TimeOnly), shortID(i.ConversationID.String()), i.LastMessage}

	case strings.HasPrefix(rawKey, "member:"):
		var m domain.Member
		if err := json.Unmarshal(value, &m); err != nil {
			return errorRow(rawKey, err)
		}
		role := "member"
		if m.IsAdmin {
			role = "admin"
		}
		return []string{rawKey, "MEMBER", m.JoinedAt.Format(time.TimeOnly), shortID(m.UserID.String()), role}

	default:
		detail := string(value)
		if len(detail) > 60 {
			detail = detail[:60] + "…"
		}
		return []string{rawKey, "RAW", "", "", detail}
	}
}

func errorRow(rawKey string, err error) []string {
	return []string{rawKey, "ERR", "", "", fmt.Sprintf("unmarshal failed: %v", err)}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func openDB(path string) (*badger.DB, error) {
	opts := badger.DefaultOptions(path).
		WithReadOnly(true).
		WithLogger(nil).
		WithBypassLockGuard(true).
		WithValueLogFileSize(10 * 1024 * 1024)

	return badger.Open(opts)
}
