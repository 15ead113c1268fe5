package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stayhub/hotel-api/internal/core/domain"
)

const (
	accountCollection = "accounts"
	roleCollection    = "roles"
)

// AccountRepository persists accounts, roles, and the many-to-many relation
// between them across two collections. Every mutation of the relation
// touches both collections inside one session transaction, so the account's
// role list and the role's account back-set can never diverge in a
// committed state.
type AccountRepository struct {
	client   *mongo.Client
	accounts *mongo.Collection
	roles    *mongo.Collection
}

func NewAccountRepository(db *mongo.Database) *AccountRepository {
	return &AccountRepository{
		client:   db.Client(),
		accounts: db.Collection(accountCollection),
		roles:    db.Collection(roleCollection),
	}
}

type accountDoc struct {
	Username     string    `bson:"_id"`
	PasswordHash string    `bson:"password_hash"`
	Roles        []string  `bson:"roles"`
	CreatedAt    time.Time `bson:"created_at"`
	UpdatedAt    time.Time `bson:"updated_at"`
}

type roleDoc struct {
	Name     string   `bson:"_id"`
	Accounts []string `bson:"accounts"`
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.findAccount(ctx, username)
}

// CreateAccount inserts the account together with its initial role set. Any
// role that does not exist yet is created lazily inside the same
// transaction; a taken username aborts with ErrAlreadyExists and leaves no
// role document behind.
func (r *AccountRepository) CreateAccount(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	doc := accountDoc{
		Username:     account.Username,
		PasswordHash: account.PasswordHash,
		Roles:        append([]string(nil), account.Roles...),
		CreatedAt:    account.CreatedAt,
		UpdatedAt:    account.UpdatedAt,
	}

	err := withTransaction(ctx, r.client, func(sc mongo.SessionContext) error {
		n, err := r.accounts.CountDocuments(sc, bson.M{"_id": account.Username})
		if err != nil {
			return classify("count accounts", err)
		}
		if n > 0 {
			return domain.ErrAlreadyExists
		}

		for _, role := range doc.Roles {
			if err := r.addToBackSet(sc, role, account.Username, true); err != nil {
				return err
			}
		}

		if _, err := r.accounts.InsertOne(sc, doc); err != nil {
			return classify("insert account", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// DeleteAccount removes the account and detaches it from every role
// back-set in the same transaction.
func (r *AccountRepository) DeleteAccount(ctx context.Context, username string) error {
	return withTransaction(ctx, r.client, func(sc mongo.SessionContext) error {
		account, err := r.findAccount(sc, username)
		if err != nil {
			return err
		}

		if len(account.Roles) > 0 {
			_, err = r.roles.UpdateMany(sc,
				bson.M{"_id": bson.M{"$in": account.Roles}},
				bson.M{"$pull": bson.M{"accounts": username}},
			)
			if err != nil {
				return classify("detach account from roles", err)
			}
		}

		if _, err := r.accounts.DeleteOne(sc, bson.M{"_id": username}); err != nil {
			return classify("delete account", err)
		}
		return nil
	})
}

func (r *AccountRepository) CreateRole(ctx context.Context, name string) (*domain.Role, error) {
	role := &domain.Role{Name: name, Accounts: []string{}}
	err := withTransaction(ctx, r.client, func(sc mongo.SessionContext) error {
		if _, err := r.roles.InsertOne(sc, roleDoc{Name: name, Accounts: []string{}}); err != nil {
			return classify("insert role", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return role, nil
}

func (r *AccountRepository) FindRole(ctx context.Context, name string) (*domain.Role, error) {
	var doc roleDoc
	if err := r.roles.FindOne(ctx, bson.M{"_id": name}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, classify("find role", err)
	}
	return &domain.Role{Name: doc.Name, Accounts: doc.Accounts}, nil
}

// AttachRole adds the role to the account's set and the account to the
// role's back-set, atomically. Both the account and the role must already
// exist.
func (r *AccountRepository) AttachRole(ctx context.Context, username, roleName string) (*domain.Account, error) {
	return r.mutateRelation(ctx, username, roleName, true)
}

// DetachRole removes the role from the account's set and the account from
// the role's back-set, atomically.
func (r *AccountRepository) DetachRole(ctx context.Context, username, roleName string) (*domain.Account, error) {
	return r.mutateRelation(ctx, username, roleName, false)
}

func (r *AccountRepository) mutateRelation(ctx context.Context, username, roleName string, attach bool) (*domain.Account, error) {
	var account *domain.Account
	err := withTransaction(ctx, r.client, func(sc mongo.SessionContext) error {
		found, err := r.findAccount(sc, username)
		if err != nil {
			return err
		}
		if n, err := r.roles.CountDocuments(sc, bson.M{"_id": roleName}); err != nil {
			return classify("count roles", err)
		} else if n == 0 {
			return domain.ErrNotFound
		}

		accountUpdate := bson.M{
			"$addToSet": bson.M{"roles": roleName},
			"$set":      bson.M{"updated_at": time.Now().UTC()},
		}
		if !attach {
			accountUpdate = bson.M{
				"$pull": bson.M{"roles": roleName},
				"$set":  bson.M{"updated_at": time.Now().UTC()},
			}
		}
		if _, err := r.accounts.UpdateOne(sc, bson.M{"_id": username}, accountUpdate); err != nil {
			return classify("update account roles", err)
		}
		if err := r.addToBackSet(sc, roleName, username, attach); err != nil {
			return err
		}

		if attach {
			found.AttachRole(roleName)
		} else {
			found.DetachRole(roleName)
		}
		account = found
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

// addToBackSet maintains the role side of the relation. With upsert the role
// document is created lazily on first use.
func (r *AccountRepository) addToBackSet(sc mongo.SessionContext, roleName, username string, attach bool) error {
	update := bson.M{"$addToSet": bson.M{"accounts": username}}
	if !attach {
		update = bson.M{"$pull": bson.M{"accounts": username}}
	}
	_, err := r.roles.UpdateOne(sc, bson.M{"_id": roleName}, update,
		options.Update().SetUpsert(attach))
	if err != nil {
		return classify("update role back-set", err)
	}
	return nil
}

func (r *AccountRepository) findAccount(ctx context.Context, username string) (*domain.Account, error) {
	var doc accountDoc
	if err := r.accounts.FindOne(ctx, bson.M{"_id": username}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrNotFound
		}
		return nil, classify("find account", err)
	}
	return &domain.Account{
		Username:     doc.Username,
		PasswordHash: doc.PasswordHash,
		Roles:        doc.Roles,
		CreatedAt:    doc.CreatedAt,
		UpdatedAt:    doc.UpdatedAt,
	}, nil
}
