package internal

import (
	"context"
	"fmt"
	"log"

	"ocpinode/auth"
	"ocpinode/entity/cdr"
	"ocpinode/entity/location"
	"ocpinode/entity/session"
	"ocpinode/entity/tariff"
	"ocpinode/entity/token"
	"ocpinode/internal/config"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	collectionLog           = "ocpi_log"
	collectionRemoteParties = "remote_parties"
	collectionLocations     = "locations"
	collectionTariffs       = "tariffs"
	collectionSessions      = "sessions"
	collectionTokens        = "tokens"
	collectionCdrs          = "cdrs"
)

type MongoDB struct {
	ctx           context.Context
	clientOptions *options.ClientOptions
	database      string
}

func NewMongoClient(conf *config.Config) (*MongoDB, error) {
	if !conf.Mongo.Enabled {
		return nil, nil
	}
	connectionUri := fmt.Sprintf("mongodb://%s:%s", conf.Mongo.Host, conf.Mongo.Port)
	clientOptions := options.Client().ApplyURI(connectionUri).SetRegistry(mongoRegistry())
	if conf.Mongo.User != "" {
		clientOptions.SetAuth(options.Credential{
			Username:   conf.Mongo.User,
			Password:   conf.Mongo.Password,
			AuthSource: conf.Mongo.Database,
		})
	}
	client := &MongoDB{
		ctx:           context.Background(),
		clientOptions: clientOptions,
		database:      conf.Mongo.Database,
	}
	return client, nil
}

func (m *MongoDB) connect() (*mongo.Client, error) {
	connection, err := mongo.Connect(m.ctx, m.clientOptions)
	if err != nil {
		return nil, err
	}
	return connection, nil
}

func (m *MongoDB) disconnect(connection *mongo.Client) {
	err := connection.Disconnect(m.ctx)
	if err != nil {
		log.Println("mongodb disconnect error;", err)
	}
}

func identityFilter(countryCode, partyId, id string) bson.D {
	return bson.D{
		{Key: "country_code", Value: countryCode},
		{Key: "party_id", Value: partyId},
		{Key: "id", Value: id},
	}
}

func (m *MongoDB) WriteLogMessage(data Data) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)
	collection := connection.Database(m.database).Collection(collectionLog)
	_, err = collection.InsertOne(m.ctx, data)
	return err
}

func (m *MongoDB) ReadLog() (interface{}, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	var logMessages []FeatureLogMessage
	collection := connection.Database(m.database).Collection(collectionLog)
	filter := bson.D{}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}}).SetLimit(1000)
	cursor, err := collection.Find(m.ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	if err = cursor.All(m.ctx, &logMessages); err != nil {
		return nil, err
	}
	return logMessages, nil
}

func (m *MongoDB) LookupRemoteParties(token string) ([]*auth.RemoteParty, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	var parties []*auth.RemoteParty
	collection := connection.Database(m.database).Collection(collectionRemoteParties)
	filter := bson.D{{Key: "access_tokens.token", Value: token}}
	cursor, err := collection.Find(m.ctx, filter)
	if err != nil {
		return nil, err
	}
	if err = cursor.All(m.ctx, &parties); err != nil {
		return nil, err
	}
	return parties, nil
}

func (m *MongoDB) GetRemoteParties() ([]*auth.RemoteParty, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	var parties []*auth.RemoteParty
	collection := connection.Database(m.database).Collection(collectionRemoteParties)
	cursor, err := collection.Find(m.ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	if err = cursor.All(m.ctx, &parties); err != nil {
		return nil, err
	}
	return parties, nil
}

func (m *MongoDB) AddRemoteParty(party *auth.RemoteParty) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)
	collection := connection.Database(m.database).Collection(collectionRemoteParties)
	filter := bson.D{{Key: "country_code", Value: party.CountryCode}, {Key: "party_id", Value: party.PartyId}, {Key: "role", Value: party.Role}}
	update := bson.D{{Key: "$set", Value: party}}
	_, err = collection.UpdateOne(m.ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (m *MongoDB) GetLocations(countryCode, partyId string) ([]*location.Location, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	var locations []*location.Location
	collection := connection.Database(m.database).Collection(collectionLocations)
	filter := bson.D{{Key: "country_code", Value: countryCode}, {Key: "party_id", Value: partyId}}
	cursor, err := collection.Find(m.ctx, filter)
	if err != nil {
		return nil, err
	}
	if err = cursor.All(m.ctx, &locations); err != nil {
		return nil, err
	}
	return locations, nil
}

func (m *MongoDB) GetLocation(countryCode, partyId, id string) (*location.Location, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	loc := &location.Location{}
	collection := connection.Database(m.database).Collection(collectionLocations)
	err = collection.FindOne(m.ctx, identityFilter(countryCode, partyId, id)).Decode(loc)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return loc, nil
}

func (m *MongoDB) UpsertLocation(loc *location.Location) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)
	collection := connection.Database(m.database).Collection(collectionLocations)
	update := bson.D{{Key: "$set", Value: loc}}
	_, err = collection.UpdateOne(m.ctx, identityFilter(loc.CountryCode, loc.PartyId, loc.Id), update, options.Update().SetUpsert(true))
	return err
}

func (m *MongoDB) GetTariffs(countryCode, partyId string) ([]*tariff.Tariff, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	var tariffs []*tariff.Tariff
	collection := connection.Database(m.database).Collection(collectionTariffs)
	filter := bson.D{{Key: "country_code", Value: countryCode}, {Key: "party_id", Value: partyId}}
	cursor, err := collection.Find(m.ctx, filter)
	if err != nil {
		return nil, err
	}
	if err = cursor.All(m.ctx, &tariffs); err != nil {
		return nil, err
	}
	return tariffs, nil
}

func (m *MongoDB) GetTariff(countryCode, partyId, id string) (*tariff.Tariff, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	trf := &tariff.Tariff{}
	collection := connection.Database(m.database).Collection(collectionTariffs)
	err = collection.FindOne(m.ctx, identityFilter(countryCode, partyId, id)).Decode(trf)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return trf, nil
}

func (m *MongoDB) UpsertTariff(trf *tariff.Tariff) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)
	collection := connection.Database(m.database).Collection(collectionTariffs)
	update := bson.D{{Key: "$set", Value: trf}}
	_, err = collection.UpdateOne(m.ctx, identityFilter(trf.CountryCode, trf.PartyId, trf.Id), update, options.Update().SetUpsert(true))
	return err
}

func (m *MongoDB) GetSession(countryCode, partyId, id string) (*session.Session, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	ses := &session.Session{}
	collection := connection.Database(m.database).Collection(collectionSessions)
	err = collection.FindOne(m.ctx, identityFilter(countryCode, partyId, id)).Decode(ses)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return ses, nil
}

func (m *MongoDB) UpsertSession(ses *session.Session) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)
	collection := connection.Database(m.database).Collection(collectionSessions)
	update := bson.D{{Key: "$set", Value: ses}}
	_, err = collection.UpdateOne(m.ctx, identityFilter(ses.CountryCode, ses.PartyId, ses.Id), update, options.Update().SetUpsert(true))
	return err
}

func (m *MongoDB) GetToken(countryCode, partyId, uid string) (*token.Token, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	tok := &token.Token{}
	collection := connection.Database(m.database).Collection(collectionTokens)
	filter := bson.D{{Key: "country_code", Value: countryCode}, {Key: "party_id", Value: partyId}, {Key: "uid", Value: uid}}
	err = collection.FindOne(m.ctx, filter).Decode(tok)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return tok, nil
}

func (m *MongoDB) UpsertToken(tok *token.Token) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)
	collection := connection.Database(m.database).Collection(collectionTokens)
	filter := bson.D{{Key: "country_code", Value: tok.CountryCode}, {Key: "party_id", Value: tok.PartyId}, {Key: "uid", Value: tok.Uid}}
	update := bson.D{{Key: "$set", Value: tok}}
	_, err = collection.UpdateOne(m.ctx, filter, update, options.Update().SetUpsert(true))
	return err
}

func (m *MongoDB) GetCdr(countryCode, partyId, id string) (*cdr.Cdr, error) {
	connection, err := m.connect()
	if err != nil {
		return nil, err
	}
	defer m.disconnect(connection)

	record := &cdr.Cdr{}
	collection := connection.Database(m.database).Collection(collectionCdrs)
	err = collection.FindOne(m.ctx, identityFilter(countryCode, partyId, id)).Decode(record)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, nil
		}
		return nil, err
	}
	return record, nil
}

// AddCdr inserts a billable record; CDRs are append-only, an existing
// identity is never overwritten.
func (m *MongoDB) AddCdr(record *cdr.Cdr) error {
	connection, err := m.connect()
	if err != nil {
		return err
	}
	defer m.disconnect(connection)
	collection := connection.Database(m.database).Collection(collectionCdrs)
	count, err := collection.CountDocuments(m.ctx, identityFilter(record.CountryCode, record.PartyId, record.Id))
	if err != nil {
		return err
	}
	if count > 0 {
		return fmt.Errorf("cdr %s already exists", record.Id)
	}
	_, err = collection.InsertOne(m.ctx, record)
	return err
}
