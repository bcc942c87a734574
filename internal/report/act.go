package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Spok95/clinic-backend/internal/domain/medications"
)

// RenderAct собирает акт списання медикаментів за период:
// позиции с ценами, итоговая сумма и сумма прописью.
// Денежная арифметика — на decimal, float в деньгах не используется.
func RenderAct(items []medications.ConsumptionTotal, period string) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())

	if err := f.SetCellValue(sheet, "A1",
		fmt.Sprintf("АКТ списання медикаментів за період %s", period)); err != nil {
		return nil, err
	}

	header := []interface{}{"№ п/п", "Назва медикаменту", "Од. виміру", "Кількість", "Ціна за од., грн", "Сума, грн"}
	if err := f.SetSheetRow(sheet, "A3", &header); err != nil {
		return nil, err
	}

	total := decimal.Zero
	row := 4
	for i, it := range items {
		sum := decimal.NewFromFloat(it.Quantity).
			Mul(decimal.NewFromFloat(it.PricePerUnit)).
			Round(2)
		total = total.Add(sum)

		line := []interface{}{
			i + 1,
			it.FullName,
			it.Unit,
			it.Quantity,
			it.PricePerUnit,
			sum.InexactFloat64(),
		}
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &line); err != nil {
			return nil, err
		}
		row++
	}

	totalLine := []interface{}{"", "", "", "", "ВСЬОГО", total.StringFixed(2)}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return nil, err
	}
	if err := f.SetSheetRow(sheet, cell, &totalLine); err != nil {
		return nil, err
	}

	wordsCell, err := excelize.CoordinatesToCellName(1, row+1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellValue(sheet, wordsCell, "Разом: "+AmountInWords(total)); err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var (
	actUnits = []string{"", "одна", "дві", "три", "чотири", "п’ять", "шість", "сім", "вісім", "дев’ять"}
	actTeens = []string{"десять", "одинадцять", "дванадцять", "тринадцять", "чотирнадцять",
		"п’ятнадцять", "шістнадцять", "сімнадцять", "вісімнадцять", "дев’ятнадцять"}
	actTens = []string{"", "десять", "двадцять", "тридцять", "сорок", "п’ятдесят",
		"шістдесят", "сімдесят", "вісімдесят", "дев’яносто"}
	actHundreds = []string{"", "сто", "двісті", "триста", "чотириста", "п’ятсот",
		"шістсот", "сімсот", "вісімсот", "дев’ятсот"}
)

func tensAndUnits(n int) string {
	if n < 10 {
		return actUnits[n]
	}
	if n < 20 {
		return actTeens[n-10]
	}
	return strings.TrimSpace(actTens[n/10] + " " + actUnits[n%10])
}

func belowThousand(n int) string {
	return strings.TrimSpace(actHundreds[n/100] + " " + tensAndUnits(n%100))
}

// форма слова «тисяча» по числу тысяч
func thousandWord(n int) string {
	switch {
	case n%100 >= 11 && n%100 <= 14:
		return "тисяч"
	case n%10 == 1:
		return "тисяча"
	case n%10 >= 2 && n%10 <= 4:
		return "тисячі"
	default:
		return "тисяч"
	}
}

// AmountInWords — сумма прописью: «дві тисячі триста сорок грн. п’ять коп.».
func AmountInWords(amount decimal.Decimal) string {
	amount = amount.Round(2)
	hrn := amount.IntPart()
	kop := amount.Sub(decimal.NewFromInt(hrn)).Mul(decimal.NewFromInt(100)).Round(0).IntPart()

	var parts []string
	thousands := int(hrn / 1000)
	remainder := int(hrn % 1000)

	if thousands > 0 {
		parts = append(parts, belowThousand(thousands), thousandWord(thousands))
	}
	if remainder > 0 || hrn == 0 {
		word := belowThousand(remainder)
		if hrn == 0 {
			word = "нуль"
		}
		parts = append(parts, word)
	}
	parts = append(parts, "грн.")
	if kop > 0 {
		parts = append(parts, tensAndUnits(int(kop)), "коп.")
	}

	return strings.Join(strings.Fields(strings.Join(parts, " ")), " ")
}
