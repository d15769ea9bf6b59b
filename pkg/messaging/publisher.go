package messaging

import (
	"github.com/google/uuid"
	"github.com/matst80/slask-catalog/pkg/catalog"
	amqp "github.com/rabbitmq/amqp091-go"
)

// CatalogPublisher sends catalog messages tagged with the id of this
// instance.
type CatalogPublisher struct {
	Origin string
	Prefix string
	conn   *amqp.Connection
}

func NewCatalogPublisher(conn *amqp.Connection, prefix string) (*CatalogPublisher, error) {
	ch, err := conn.Channel()
	if err != nil {
		return nil, err
	}
	defer ch.Close()
	for _, topic := range []ChangeTopic{CatalogRefresh, CatalogChanged} {
		if err := DefineTopic(ch, prefix, topic); err != nil {
			return nil, err
		}
	}
	return &CatalogPublisher{
		Origin: uuid.NewString(),
		Prefix: prefix,
		conn:   conn,
	}, nil
}

func (p *CatalogPublisher) NewChange(result catalog.LoadResult) CatalogChange {
	return CatalogChange{
		Origin:   p.Origin,
		Names:    result.Requested,
		Flags:    result.Flags,
		Added:    result.Added,
		Replaced: result.Replaced,
	}
}

func (p *CatalogPublisher) IsOwn(change CatalogChange) bool {
	return change.Origin == p.Origin
}

func (p *CatalogPublisher) PublishChange(result catalog.LoadResult) error {
	return SendChange(p.conn, p.Prefix, CatalogChanged, p.NewChange(result))
}

func (p *CatalogPublisher) RequestRefresh(req RefreshRequest) error {
	return SendChange(p.conn, p.Prefix, CatalogRefresh, req)
}
