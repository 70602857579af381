package costbyeq

import (
	"strings"
)

const sourceQueryTemplate = `select
    e.EQNO,
    e.EQName,
    e.EQCode,
    wo.WODATE,
    wo.SiteNo,
    wt.WOTypeGroupNo,
    count(wo.WONO) as wo_count,
    sum(case when <LABOR> then wr.amount else 0 end) as MHCost,
    sum(case when <PART> then wr.amount else 0 end) as SparePartCost,
    sum(case when <OUTSOURCE> then wr.amount else 0 end) as OutsourceCost,
    sum(
        case
            when <LABOR> then wr.amount
            when <PART> then wr.amount
            when <OUTSOURCE> then wr.amount
            else 0
        end
    ) as maincost
from <WO> as wo
left join <WO-RESOURCE> as wr on wr.WONO = wo.WONO
left join <EQ> as e on e.EQNO = wo.EQNO
left join <WOTYPE> as wt on wt.WOTYPENO = wo.WOTYPENO
where e.EQNO is not null
group by e.EQNO, e.EQName, e.EQCode, wo.WODATE, wo.SiteNo, wt.WOTypeGroupNo`

// SourceQuery builds the aggregation of work order resource costs per equipment, date, site and work order type group.
type SourceQuery struct {
	WorkOrderTable     string
	ResourceTable      string
	EquipmentTable     string
	WorkOrderTypeTable string

	LaborType         string
	PartType          string
	PartSubtypes      []string
	OutsourceType     string
	OutsourceSubtypes []string
}

// DefaultSourceQuery returns the query against the maintenance system tables.
func DefaultSourceQuery() SourceQuery {
	return SourceQuery{
		WorkOrderTable:     "WO",
		ResourceTable:      "WO_Resource",
		EquipmentTable:     "EQ",
		WorkOrderTypeTable: "WOTYPE",
		LaborType:          "L",
		PartType:           "P",
		PartSubtypes:       []string{"N", "S"},
		OutsourceType:      "O",
		OutsourceSubtypes:  []string{"O", "V"},
	}
}

// SQL renders the query text.
func (q SourceQuery) SQL() string {
	r := strings.NewReplacer(
		"<LABOR>", resourcePredicate(q.LaborType, nil),
		"<PART>", resourcePredicate(q.PartType, q.PartSubtypes),
		"<OUTSOURCE>", resourcePredicate(q.OutsourceType, q.OutsourceSubtypes),
		"<WO>", q.WorkOrderTable,
		"<WO-RESOURCE>", q.ResourceTable,
		"<EQ>", q.EquipmentTable,
		"<WOTYPE>", q.WorkOrderTypeTable,
	)
	return r.Replace(sourceQueryTemplate)
}

// resourcePredicate matches resource lines of type t and, if given, one of subtypes.
func resourcePredicate(t string, subtypes []string) string {
	p := "wr.RESCTYPE = " + quoteLiteral(t)
	if len(subtypes) == 0 {
		return p
	}
	lits := make([]string, len(subtypes))
	for idx, s := range subtypes {
		lits[idx] = quoteLiteral(s)
	}
	return p + " and wr.RESCSUBTYPE in (" + strings.Join(lits, ",") + ")"
}

func quoteLiteral(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}
