package db

import (
	"context"

	"talentclub/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// lessonDoc mirrors models.Lesson with a nullable seat count so documents
// written before the field existed still read back with the default.
type lessonDoc struct {
	ID       string  `bson:"id"`
	Topic    string  `bson:"topic"`
	Location string  `bson:"location"`
	Price    float64 `bson:"price"`
	Spaces   *int    `bson:"spaces"`
	Image    string  `bson:"image,omitempty"`
}

func (d lessonDoc) toModel() models.Lesson {
	spaces := models.DefaultSpaces
	if d.Spaces != nil {
		spaces = *d.Spaces
	}
	return models.Lesson{
		ID:       d.ID,
		Topic:    d.Topic,
		Location: d.Location,
		Price:    d.Price,
		Spaces:   spaces,
		Image:    d.Image,
	}
}

// LessonStore is the Mongo-backed lesson catalog.
type LessonStore struct {
	coll *mongo.Collection
}

func (s *LessonStore) List(ctx context.Context) ([]models.Lesson, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	lessons := []models.Lesson{}
	for cursor.Next(ctx) {
		var doc lessonDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		lessons = append(lessons, doc.toModel())
	}
	return lessons, cursor.Err()
}

// Get returns nil without error when no lesson matches.
func (s *LessonStore) Get(ctx context.Context, id string) (*models.Lesson, error) {
	var doc lessonDoc
	err := s.coll.FindOne(ctx, bson.M{"id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	lesson := doc.toModel()
	return &lesson, nil
}

// FindByIDs resolves the distinct ids present in the store. Callers compare
// the result against what they asked for; missing ids are not an error here.
func (s *LessonStore) FindByIDs(ctx context.Context, ids []string) ([]models.Lesson, error) {
	if len(ids) == 0 {
		return []models.Lesson{}, nil
	}
	cursor, err := s.coll.Find(ctx, bson.M{"id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	lessons := []models.Lesson{}
	for cursor.Next(ctx) {
		var doc lessonDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		lessons = append(lessons, doc.toModel())
	}
	return lessons, cursor.Err()
}

func (s *LessonStore) Insert(ctx context.Context, lesson models.Lesson) error {
	_, err := s.coll.InsertOne(ctx, lesson)
	return err
}

// Update applies a $set patch and reports the modified count. A zero count
// means the lesson does not exist or the patch changed nothing.
func (s *LessonStore) Update(ctx context.Context, id string, fields bson.M) (int64, error) {
	result, err := s.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": fields})
	if err != nil {
		return 0, err
	}
	return result.ModifiedCount, nil
}

// ReserveSeat performs the conditioned decrement: one seat, only while the
// count is still positive. A false return means the race was lost, not a
// store failure.
func (s *LessonStore) ReserveSeat(ctx context.Context, id string) (bool, error) {
	filter := bson.M{"id": id, "spaces": bson.M{"$gt": 0}}
	update := bson.M{"$inc": bson.M{"spaces": -1}}
	result, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, err
	}
	return result.ModifiedCount == 1, nil
}

// ReleaseSeat is the compensating increment used to unwind a partial
// reservation.
func (s *LessonStore) ReleaseSeat(ctx context.Context, id string) error {
	update := bson.M{"$inc": bson.M{"spaces": 1}}
	_, err := s.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	return err
}

// Aggregate runs a pipeline over the lessons collection, decoding every
// result as a lesson. Used by the search service.
func (s *LessonStore) Aggregate(ctx context.Context, pipeline mongo.Pipeline) ([]models.Lesson, error) {
	cursor, err := s.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	lessons := []models.Lesson{}
	for cursor.Next(ctx) {
		var doc lessonDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		lessons = append(lessons, doc.toModel())
	}
	return lessons, cursor.Err()
}

// AccountStore keeps customer accounts with their embedded orders, or flat
// standalone order documents when the standalone variant is configured.
type AccountStore struct {
	coll       *mongo.Collection
	standalone bool
}

func (s *AccountStore) Standalone() bool { return s.standalone }

// FindByPhone returns the first account matching phone, nil when none does.
// Phone carries no uniqueness index; first match is canonical.
func (s *AccountStore) FindByPhone(ctx context.Context, phone string) (*models.Account, error) {
	var account models.Account
	err := s.coll.FindOne(ctx, bson.M{"phone": phone}).Decode(&account)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *AccountStore) FindByID(ctx context.Context, id string) (*models.Account, error) {
	var account models.Account
	err := s.coll.FindOne(ctx, bson.M{"id": id}).Decode(&account)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (s *AccountStore) Create(ctx context.Context, account models.Account) error {
	_, err := s.coll.InsertOne(ctx, account)
	return err
}

// AppendOrder pushes one order onto an account. The push is atomic at the
// document level, so concurrent appends interleave without loss.
func (s *AccountStore) AppendOrder(ctx context.Context, accountID string, order models.Order) error {
	_, err := s.coll.UpdateOne(ctx,
		bson.M{"id": accountID},
		bson.M{"$push": bson.M{"orders": order}},
	)
	return err
}

func (s *AccountStore) InsertStandalone(ctx context.Context, order models.StandaloneOrder) error {
	_, err := s.coll.InsertOne(ctx, order)
	return err
}

func (s *AccountStore) ListAccounts(ctx context.Context) ([]models.Account, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	accounts := []models.Account{}
	if err := cursor.All(ctx, &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

func (s *AccountStore) FindStandaloneByID(ctx context.Context, id string) (*models.StandaloneOrder, error) {
	var order models.StandaloneOrder
	err := s.coll.FindOne(ctx, bson.M{"id": id}).Decode(&order)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

func (s *AccountStore) ListStandalone(ctx context.Context) ([]models.StandaloneOrder, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	orders := []models.StandaloneOrder{}
	if err := cursor.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// AdminStore holds the bcrypt-hashed admin credentials.
type AdminStore struct {
	coll *mongo.Collection
}

func (s *AdminStore) FindByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	var admin models.AdminUser
	err := s.coll.FindOne(ctx, bson.M{"username": username}).Decode(&admin)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

func (s *AdminStore) Insert(ctx context.Context, admin models.AdminUser) error {
	_, err := s.coll.InsertOne(ctx, admin)
	return err
}
