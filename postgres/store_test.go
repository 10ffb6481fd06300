package postgres_test

import (
	"github.com/xy-planning-network/switchback"
	"github.com/xy-planning-network/switchback/postgres"
)

func (suite *DBTestSuite) TestStoreCreateAndFindByID() {
	store := postgres.NewStore[widget](suite.db)

	rec := widget{Name: "Sprocket"}
	suite.Require().Nil(store.Create(&rec))
	suite.Require().NotZero(rec.ID)

	found, err := store.FindByID(int(rec.ID))
	suite.Require().Nil(err)
	suite.Require().Equal("Sprocket", found.Name)
}

func (suite *DBTestSuite) TestStoreFindByIDMissing() {
	store := postgres.NewStore[widget](suite.db)

	_, err := store.FindByID(999)

	suite.Require().ErrorIs(err, switchback.ErrNotExist)
}

func (suite *DBTestSuite) TestStoreAll() {
	store := postgres.NewStore[widget](suite.db)

	for _, name := range []string{"Sprocket", "Spoke"} {
		rec := widget{Name: name}
		suite.Require().Nil(store.Create(&rec))
	}

	all, err := store.All()
	suite.Require().Nil(err)
	suite.Require().Len(all, 2)
	suite.Require().Equal("Sprocket", all[0].Name)
}

func (suite *DBTestSuite) TestStoreUpdate() {
	store := postgres.NewStore[widget](suite.db)

	rec := widget{Name: "Sprocket"}
	suite.Require().Nil(store.Create(&rec))

	updated, err := store.Update(int(rec.ID), postgres.Updates{"name": "Cog"})
	suite.Require().Nil(err)
	suite.Require().Equal("Cog", updated.Name)
}

func (suite *DBTestSuite) TestStoreUpdateMissing() {
	store := postgres.NewStore[widget](suite.db)

	_, err := store.Update(999, postgres.Updates{"name": "Cog"})

	suite.Require().ErrorIs(err, switchback.ErrNotExist)
}

func (suite *DBTestSuite) TestStoreUpdateNotNull() {
	store := postgres.NewStore[widget](suite.db)

	rec := widget{Name: "Sprocket"}
	suite.Require().Nil(store.Create(&rec))

	_, err := store.Update(int(rec.ID), postgres.Updates{"name": nil})

	suite.Require().ErrorIs(err, switchback.ErrNotValid)
}

func (suite *DBTestSuite) TestStoreDelete() {
	store := postgres.NewStore[widget](suite.db)

	rec := widget{Name: "Sprocket"}
	suite.Require().Nil(store.Create(&rec))

	gone, err := store.Delete(int(rec.ID))
	suite.Require().Nil(err)
	suite.Require().Equal("Sprocket", gone.Name)

	_, err = store.FindByID(int(rec.ID))
	suite.Require().ErrorIs(err, switchback.ErrNotExist)
}

func (suite *DBTestSuite) TestStorePaged() {
	store := postgres.NewStore[widget](suite.db)

	for _, name := range []string{"A", "B", "C"} {
		rec := widget{Name: name}
		suite.Require().Nil(store.Create(&rec))
	}

	pd, err := store.Paged(1, 2)
	suite.Require().Nil(err)
	suite.Require().Equal(int64(3), pd.TotalItems)
	suite.Require().Equal(int64(2), pd.TotalPages)
}
