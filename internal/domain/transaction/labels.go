package transaction

// typeLabels maps entry types to the names shown on statements.
var typeLabels = map[Type]string{
	TypeDeposit:          "Depósito",
	TypeWithdrawal:       "Saque",
	TypeInternalTransfer: "Transferência Interna",
	TypeExternalTransfer: "Transferência Externa",
	TypeBuyAsset:         "Compra de Ativo",
	TypeSellAsset:        "Venda de Ativo",
}

// Label returns the statement name of the type, or the raw code when unknown.
func (t Type) Label() string {
	if label, ok := typeLabels[t]; ok {
		return label
	}
	return string(t)
}

// ParseType accepts either the code ("DEPOSIT") or the statement label.
func ParseType(s string) (Type, bool) {
	if t := Type(s); t.Valid() {
		return t, true
	}
	for t, label := range typeLabels {
		if label == s {
			return t, true
		}
	}
	return "", false
}
