package db

import (
	"context"
	"testing"
)

func TestTxFromContext_Nil(t *testing.T) {
	ctx := context.Background()
	if tx := TxFromContext(ctx); tx != nil {
		t.Errorf("expected nil tx from empty context, got %v", tx)
	}
}

func TestTxFromContext_WrongType(t *testing.T) {
	ctx := context.WithValue(context.Background(), txKey, "not a tx")
	if tx := TxFromContext(ctx); tx != nil {
		t.Errorf("expected nil tx for wrong type, got %v", tx)
	}
}

func TestConnFromContext_Nil(t *testing.T) {
	ctx := context.Background()
	if conn := ConnFromContext(ctx); conn != nil {
		t.Errorf("expected nil conn from empty context, got %v", conn)
	}
}
