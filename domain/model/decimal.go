package model

import (
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/shopspring/decimal"
)

// MoneyScale is the number of decimal places kept for currency amounts.
const MoneyScale = 2

// Decimal is an exact base-10 number stored as a DynamoDB number attribute.
// Currency and quantity fields use it instead of float64 so binary rounding
// artifacts never reach the table.
type Decimal struct {
	decimal.Decimal
}

// DecimalFromFloat converts a binary float to its shortest exact decimal
// representation, the same conversion the store applies to numbers inside
// open documents.
func DecimalFromFloat(f float64) Decimal {
	return Decimal{decimal.NewFromFloat(f)}
}

// MoneyFromFloat converts a binary float to a two-decimal currency amount.
// Float noise from upstream arithmetic (19.999999999999998) lands on the
// intended value (20.00).
func MoneyFromFloat(f float64) Decimal {
	return Decimal{decimal.NewFromFloat(f).RoundBank(MoneyScale)}
}

// DecimalFromString parses an exact decimal literal.
func DecimalFromString(s string) (Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Decimal{}, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	return Decimal{d}, nil
}

// MarshalDynamoDBAttributeValue stores the value as a number attribute.
func (d Decimal) MarshalDynamoDBAttributeValue() (types.AttributeValue, error) {
	return &types.AttributeValueMemberN{Value: d.String()}, nil
}

// UnmarshalDynamoDBAttributeValue accepts number, numeric-string and null
// attributes.
func (d *Decimal) UnmarshalDynamoDBAttributeValue(av types.AttributeValue) error {
	switch v := av.(type) {
	case *types.AttributeValueMemberN:
		parsed, err := decimal.NewFromString(v.Value)
		if err != nil {
			return fmt.Errorf("invalid number attribute %q: %w", v.Value, err)
		}
		d.Decimal = parsed
	case *types.AttributeValueMemberS:
		parsed, err := decimal.NewFromString(v.Value)
		if err != nil {
			return fmt.Errorf("invalid numeric string attribute %q: %w", v.Value, err)
		}
		d.Decimal = parsed
	case *types.AttributeValueMemberNULL:
		d.Decimal = decimal.Zero
	default:
		return fmt.Errorf("cannot unmarshal %T into Decimal", av)
	}
	return nil
}
