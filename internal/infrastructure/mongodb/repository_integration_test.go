package mongodb

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"

	"github.com/warehouse-ops/operations-api/internal/domain"
	pkgmongo "github.com/warehouse-ops/operations-api/pkg/mongodb"
)

type RepositoryIntegrationTestSuite struct {
	suite.Suite
	mongoContainer *mongodb.MongoDBContainer
	client         *pkgmongo.Client
	putawayRepo    *PutawayOrderRepository
	bulkRepo       *BulkStorageOrderRepository
	roRepo         *ReplenishmentOrderRepository
	poRepo         *PurchaseOrderRepository
	ledgerRepo     *InventoryLedgerRepository
	auditRepo      *AdjustmentAuditRepository
	catalogRepo    *CatalogRepository
	transactor     *Transactor
	ctx            context.Context
}

func (s *RepositoryIntegrationTestSuite) SetupSuite() {
	s.ctx = context.Background()

	// Single-node replica set so multi-document transactions work
	container, err := mongodb.Run(s.ctx, "mongo:6",
		mongodb.WithReplicaSet("rs"),
	)
	s.Require().NoError(err)
	s.mongoContainer = container

	connStr, err := container.ConnectionString(s.ctx)
	s.Require().NoError(err)

	// Connect directly to the mapped port; the replica set advertises an
	// internal hostname that is not reachable from the test host
	if strings.Contains(connStr, "?") {
		connStr += "&directConnection=true"
	} else {
		connStr += "?directConnection=true"
	}

	client, err := pkgmongo.NewClient(s.ctx, &pkgmongo.Config{
		URI:            connStr,
		Database:       "operations_test",
		ConnectTimeout: 10 * time.Second,
		MaxPoolSize:    10,
		MinPoolSize:    1,
	})
	s.Require().NoError(err)
	s.client = client

	db := client.Database()
	s.putawayRepo = NewPutawayOrderRepository(db)
	s.bulkRepo = NewBulkStorageOrderRepository(db)
	s.roRepo = NewReplenishmentOrderRepository(db)
	s.poRepo = NewPurchaseOrderRepository(db)
	s.ledgerRepo = NewInventoryLedgerRepository(db)
	s.auditRepo = NewAdjustmentAuditRepository(db)
	s.catalogRepo = NewCatalogRepository(db)
	s.transactor = NewTransactor(client)
}

func (s *RepositoryIntegrationTestSuite) TearDownSuite() {
	if s.client != nil {
		s.client.Close(s.ctx)
	}
	if s.mongoContainer != nil {
		s.Require().NoError(s.mongoContainer.Terminate(s.ctx))
	}
}

func (s *RepositoryIntegrationTestSuite) TearDownTest() {
	db := s.client.Database()
	for _, name := range []string{
		"putaway_orders", "bulk_storage_orders", "replenishment_orders",
		"purchase_orders", "inventory_ledger", "adjustment_audits", "products",
	} {
		s.Require().NoError(db.Collection(name).Drop(s.ctx))
	}
}

func TestRepositoryIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}
	suite.Run(t, new(RepositoryIntegrationTestSuite))
}

var integrationNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func (s *RepositoryIntegrationTestSuite) newPutawayOrder(orderID, toteID string) *domain.PutawayOrder {
	order, err := domain.NewPutawayOrder(orderID, toteID, []domain.OrderLine{
		{SKU: "WIDGET-001", Name: "Widget", Barcode: "12345678", Quantity: 10},
	}, integrationNow)
	s.Require().NoError(err)
	return order
}

// Putaway orders

func (s *RepositoryIntegrationTestSuite) TestPutawayOrderRepository_SaveAndFind() {
	order := s.newPutawayOrder("PA-00000001", "TOTE001")

	err := s.putawayRepo.Save(s.ctx, order)
	s.Require().NoError(err)

	retrieved, err := s.putawayRepo.FindByOrderID(s.ctx, "PA-00000001")
	s.Require().NoError(err)
	s.Require().NotNil(retrieved)
	s.Equal("TOTE001", retrieved.ToteID)
	s.Equal(domain.OrderStatusPending, retrieved.Status)
	s.Len(retrieved.Lines, 1)
	s.Equal(10, retrieved.TotalQuantity)
}

func (s *RepositoryIntegrationTestSuite) TestPutawayOrderRepository_FindByOrderID_NotFound() {
	retrieved, err := s.putawayRepo.FindByOrderID(s.ctx, "PA-MISSING")
	s.Require().NoError(err)
	s.Nil(retrieved)
}

func (s *RepositoryIntegrationTestSuite) TestPutawayOrderRepository_PendingToteUnique() {
	err := s.putawayRepo.Save(s.ctx, s.newPutawayOrder("PA-00000001", "TOTE001"))
	s.Require().NoError(err)

	// Same tote while the first order is still pending
	err = s.putawayRepo.Save(s.ctx, s.newPutawayOrder("PA-00000002", "TOTE001"))
	s.Require().ErrorIs(err, domain.ErrDuplicateIdentifier)

	// Archiving the first order frees the tote
	first, err := s.putawayRepo.FindByOrderID(s.ctx, "PA-00000001")
	s.Require().NoError(err)
	first.Status = domain.OrderStatusArchived
	_, err = s.client.Collection("putaway_orders").ReplaceOne(s.ctx,
		map[string]interface{}{"orderId": "PA-00000001"}, first)
	s.Require().NoError(err)

	err = s.putawayRepo.Save(s.ctx, s.newPutawayOrder("PA-00000003", "TOTE001"))
	s.Require().NoError(err)
}

func (s *RepositoryIntegrationTestSuite) TestPutawayOrderRepository_ExistsPendingByTote() {
	exists, err := s.putawayRepo.ExistsPendingByTote(s.ctx, "TOTE001")
	s.Require().NoError(err)
	s.False(exists)

	s.Require().NoError(s.putawayRepo.Save(s.ctx, s.newPutawayOrder("PA-00000001", "TOTE001")))

	exists, err = s.putawayRepo.ExistsPendingByTote(s.ctx, "TOTE001")
	s.Require().NoError(err)
	s.True(exists)
}

// Bulk storage orders

func (s *RepositoryIntegrationTestSuite) TestBulkStorageOrderRepository_PendingLocationUnique() {
	newOrder := func(orderID string) *domain.BulkStorageOrder {
		order, err := domain.NewBulkStorageOrder(orderID, "RACK-A1-01", []domain.OrderLine{
			{SKU: "PALLET-SKU", Name: "Pallet Goods", Barcode: "NA", Quantity: 500},
		}, integrationNow)
		s.Require().NoError(err)
		return order
	}

	s.Require().NoError(s.bulkRepo.Save(s.ctx, newOrder("BS-00000001")))

	err := s.bulkRepo.Save(s.ctx, newOrder("BS-00000002"))
	s.Require().ErrorIs(err, domain.ErrDuplicateIdentifier)

	exists, err := s.bulkRepo.ExistsPendingByLocation(s.ctx, "RACK-A1-01")
	s.Require().NoError(err)
	s.True(exists)
}

// Replenishment orders

func (s *RepositoryIntegrationTestSuite) TestReplenishmentOrderRepository_UpsertAndFindByStatus() {
	order, err := domain.NewReplenishmentOrder("RO-1001", "PICK-STATION-1", []domain.ReplenishmentItem{
		{ItemID: "item-1", SKU: "WIDGET-001", RackLocation: "RACK-A1-01", QtyRequested: 25},
		{ItemID: "item-2", SKU: "WIDGET-002", RackLocation: "RACK-A1-02", QtyRequested: 10},
	}, integrationNow)
	s.Require().NoError(err)

	s.Require().NoError(s.roRepo.Save(s.ctx, order))

	// Claim and save again; the upsert must overwrite, not duplicate
	order.Claim(integrationNow.Add(time.Minute))
	s.Require().NoError(s.roRepo.Save(s.ctx, order))

	retrieved, err := s.roRepo.FindByROID(s.ctx, "RO-1001")
	s.Require().NoError(err)
	s.Require().NotNil(retrieved)
	s.Equal(domain.ReplenishmentStatusInProcess, retrieved.Status)
	s.Len(retrieved.Items, 2)

	inProcess, err := s.roRepo.FindByStatus(s.ctx, domain.ReplenishmentStatusInProcess, domain.DefaultPagination())
	s.Require().NoError(err)
	s.Len(inProcess, 1)

	unassigned, err := s.roRepo.FindByStatus(s.ctx, domain.ReplenishmentStatusUnassigned, domain.DefaultPagination())
	s.Require().NoError(err)
	s.Empty(unassigned)
}

// Purchase orders

func (s *RepositoryIntegrationTestSuite) TestPurchaseOrderRepository_SearchOpen() {
	save := func(poNumber, supplier string, status domain.PurchaseOrderStatus, barcode string) {
		po := &domain.PurchaseOrder{
			PONumber:        poNumber,
			Status:          status,
			SupplierName:    supplier,
			ShipToWarehouse: "WH-EAST",
			Items: []domain.PurchaseOrderItem{
				{SKU: "WIDGET-001", Barcode: barcode, QtyOrdered: 100},
			},
			CreatedAt: integrationNow,
			UpdatedAt: integrationNow,
		}
		s.Require().NoError(s.poRepo.Save(s.ctx, po))
	}

	save("PO-1001", "Acme Supply", domain.POStatusNoneReceived, "11111111")
	save("PO-1002", "Acme Supply", domain.POStatusPartiallyReceived, "22222222")
	save("PO-1003", "Acme Supply", domain.POStatusCompleted, "33333333")
	save("PO-1004", "Globex Corp", domain.POStatusCancelled, "44444444")

	// Open orders only
	open, err := s.poRepo.SearchOpen(s.ctx, domain.POSearchQuery{}, domain.DefaultPagination())
	s.Require().NoError(err)
	s.Len(open, 2)

	// Case-insensitive supplier match
	bySupplier, err := s.poRepo.SearchOpen(s.ctx, domain.POSearchQuery{SupplierName: "acme"}, domain.DefaultPagination())
	s.Require().NoError(err)
	s.Len(bySupplier, 2)

	// Barcode lives in the item lines
	byBarcode, err := s.poRepo.SearchOpen(s.ctx, domain.POSearchQuery{Barcode: "22222222"}, domain.DefaultPagination())
	s.Require().NoError(err)
	s.Require().Len(byBarcode, 1)
	s.Equal("PO-1002", byBarcode[0].PONumber)

	byNumber, err := s.poRepo.SearchOpen(s.ctx, domain.POSearchQuery{PONumber: "PO-1003"}, domain.DefaultPagination())
	s.Require().NoError(err)
	s.Empty(byNumber, "Completed orders are excluded even when matched by number")
}

func (s *RepositoryIntegrationTestSuite) TestPurchaseOrderRepository_SaveIsUpsert() {
	po := &domain.PurchaseOrder{
		PONumber:     "PO-2001",
		Status:       domain.POStatusNoneReceived,
		SupplierName: "Acme Supply",
		CreatedAt:    integrationNow,
		UpdatedAt:    integrationNow,
	}
	s.Require().NoError(s.poRepo.Save(s.ctx, po))

	po.Status = domain.POStatusCompleted
	s.Require().NoError(s.poRepo.Save(s.ctx, po))

	retrieved, err := s.poRepo.FindByNumber(s.ctx, "PO-2001")
	s.Require().NoError(err)
	s.Require().NotNil(retrieved)
	s.Equal(domain.POStatusCompleted, retrieved.Status)

	count, err := s.client.Collection("purchase_orders").CountDocuments(s.ctx, map[string]interface{}{})
	s.Require().NoError(err)
	s.Equal(int64(1), count)
}

// Inventory ledger

func (s *RepositoryIntegrationTestSuite) TestInventoryLedger_UpsertQuantity() {
	err := s.ledgerRepo.UpsertQuantity(s.ctx, "WIDGET-001", "RACK-A1-01", 100)
	s.Require().NoError(err)

	err = s.ledgerRepo.UpsertQuantity(s.ctx, "WIDGET-001", "RACK-A1-01", -30)
	s.Require().NoError(err)

	item, err := s.ledgerRepo.GetItem(s.ctx, "WIDGET-001", "RACK-A1-01")
	s.Require().NoError(err)
	s.Require().NotNil(item)
	s.Equal(70, item.Quantity)
}

func (s *RepositoryIntegrationTestSuite) TestInventoryLedger_DecrementGuard() {
	s.Require().NoError(s.ledgerRepo.UpsertQuantity(s.ctx, "WIDGET-001", "RACK-A1-01", 10))

	err := s.ledgerRepo.UpsertQuantity(s.ctx, "WIDGET-001", "RACK-A1-01", -11)
	s.Require().ErrorIs(err, domain.ErrInsufficientStock)

	// The quantity must be untouched after the rejected decrement
	item, err := s.ledgerRepo.GetItem(s.ctx, "WIDGET-001", "RACK-A1-01")
	s.Require().NoError(err)
	s.Equal(10, item.Quantity)
}

func (s *RepositoryIntegrationTestSuite) TestInventoryLedger_DecrementAbsentRecord() {
	err := s.ledgerRepo.UpsertQuantity(s.ctx, "GHOST-SKU", "RACK-A1-01", -1)
	s.Require().ErrorIs(err, domain.ErrInsufficientStock)
}

func (s *RepositoryIntegrationTestSuite) TestInventoryLedger_GetItem_Absent() {
	item, err := s.ledgerRepo.GetItem(s.ctx, "GHOST-SKU", "RACK-A1-01")
	s.Require().NoError(err)
	s.Nil(item)
}

// Adjustment audits and transactional pairing

func (s *RepositoryIntegrationTestSuite) TestAdjustmentAudit_InsertAndFind() {
	op := &domain.AdjustmentOperation{
		Type:       domain.AdjustmentAdd,
		SKU:        "WIDGET-001",
		Quantity:   50,
		ToLocation: "RACK-A1-01",
		Reason:     "cycle count correction",
	}
	audit := domain.NewAdjustmentAudit("ADJ-00000001", op, integrationNow)

	s.Require().NoError(s.auditRepo.Insert(s.ctx, audit))

	retrieved, err := s.auditRepo.FindByOperationID(s.ctx, "ADJ-00000001")
	s.Require().NoError(err)
	s.Require().NotNil(retrieved)
	s.Equal(domain.AdjustmentAdd, retrieved.Type)
	s.Equal(50, retrieved.Quantity)
}

func (s *RepositoryIntegrationTestSuite) TestTransactor_RollsBackOnFailure() {
	s.Require().NoError(s.ledgerRepo.UpsertQuantity(s.ctx, "WIDGET-001", "RACK-A1-01", 100))

	// Transfer where the destination credit fails must leave the source intact
	errBoom := errors.New("audit write failed")
	err := s.transactor.WithinTransaction(s.ctx, func(txCtx context.Context) error {
		if err := s.ledgerRepo.UpsertQuantity(txCtx, "WIDGET-001", "RACK-A1-01", -40); err != nil {
			return err
		}
		return errBoom
	})
	s.Require().ErrorIs(err, errBoom)

	item, err := s.ledgerRepo.GetItem(s.ctx, "WIDGET-001", "RACK-A1-01")
	s.Require().NoError(err)
	s.Equal(100, item.Quantity, "Rolled-back decrement must not be visible")
}

func (s *RepositoryIntegrationTestSuite) TestTransactor_CommitsTransferWithAudit() {
	s.Require().NoError(s.ledgerRepo.UpsertQuantity(s.ctx, "WIDGET-001", "RACK-A1-01", 100))

	op := &domain.AdjustmentOperation{
		Type:         domain.AdjustmentTransfer,
		SKU:          "WIDGET-001",
		Quantity:     40,
		FromLocation: "RACK-A1-01",
		ToLocation:   "RACK-B2-05",
	}
	audit := domain.NewAdjustmentAudit("ADJ-00000002", op, integrationNow)

	err := s.transactor.WithinTransaction(s.ctx, func(txCtx context.Context) error {
		if err := s.ledgerRepo.UpsertQuantity(txCtx, op.SKU, op.FromLocation, -op.Quantity); err != nil {
			return err
		}
		if err := s.ledgerRepo.UpsertQuantity(txCtx, op.SKU, op.ToLocation, op.Quantity); err != nil {
			return err
		}
		return s.auditRepo.Insert(txCtx, audit)
	})
	s.Require().NoError(err)

	source, err := s.ledgerRepo.GetItem(s.ctx, "WIDGET-001", "RACK-A1-01")
	s.Require().NoError(err)
	s.Equal(60, source.Quantity)

	dest, err := s.ledgerRepo.GetItem(s.ctx, "WIDGET-001", "RACK-B2-05")
	s.Require().NoError(err)
	s.Equal(40, dest.Quantity)

	saved, err := s.auditRepo.FindByOperationID(s.ctx, "ADJ-00000002")
	s.Require().NoError(err)
	s.Require().NotNil(saved)
}

// Product catalog

func (s *RepositoryIntegrationTestSuite) TestCatalogRepository_Barcodes() {
	_, err := s.client.Collection("products").InsertOne(s.ctx, map[string]interface{}{
		"sku":      "WIDGET-001",
		"name":     "Widget",
		"barcodes": []string{},
	})
	s.Require().NoError(err)

	exists, err := s.catalogRepo.SKUExists(s.ctx, "WIDGET-001")
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.catalogRepo.SKUExists(s.ctx, "GHOST-SKU")
	s.Require().NoError(err)
	s.False(exists)

	s.Require().NoError(s.catalogRepo.RegisterBarcode(s.ctx, "WIDGET-001", "12345678"))

	sku, err := s.catalogRepo.LookupSKUByBarcode(s.ctx, "12345678")
	s.Require().NoError(err)
	s.Equal("WIDGET-001", sku)

	_, err = s.catalogRepo.LookupSKUByBarcode(s.ctx, "99999999")
	s.Require().ErrorIs(err, domain.ErrBarcodeNotFound)

	err = s.catalogRepo.RegisterBarcode(s.ctx, "GHOST-SKU", "55555555")
	s.Require().ErrorIs(err, domain.ErrSKUNotFound)
}
