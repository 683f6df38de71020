package builtins

import (
	"math"
	"time"

	"github.com/kodjodevf/js-interpreter-sub002/internal/errors"
	"github.com/kodjodevf/js-interpreter-sub002/internal/interp"
)

// installDateProto wires Date.prototype's getters/setters and the Date
// constructor/statics (now/parse/UTC). Date.parse and `new Date(string)`
// resolve a zoneless date-only string against time.Local so a script run
// on this host inherits the host's time zone, the same deviation-free
// reading §9 settles on.
func installDateProto(it *interp.Interpreter) {
	proto := interp.NewObject(it.ObjectProto)
	it.DateProto = proto

	getter := func(name string, f func(t time.Time) float64) {
		proto.SetOwn(interp.StringKey(name), nativeFn(it, name, 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
			obj, ok := this.(*interp.Object)
			if !ok || obj.Class != interp.ClassDate {
				return interp.Number(nan()), nil
			}
			if math.IsNaN(obj.DateValue) {
				return interp.Number(nan()), nil
			}
			return interp.Number(f(msToTime(obj.DateValue))), nil
		})
	}
	getter("getFullYear", func(t time.Time) float64 { return float64(t.Year()) })
	getter("getMonth", func(t time.Time) float64 { return float64(int(t.Month()) - 1) })
	getter("getDate", func(t time.Time) float64 { return float64(t.Day()) })
	getter("getDay", func(t time.Time) float64 { return float64(int(t.Weekday())) })
	getter("getHours", func(t time.Time) float64 { return float64(t.Hour()) })
	getter("getMinutes", func(t time.Time) float64 { return float64(t.Minute()) })
	getter("getSeconds", func(t time.Time) float64 { return float64(t.Second()) })
	getter("getMilliseconds", func(t time.Time) float64 { return float64(t.Nanosecond() / 1e6) })
	getter("getUTCFullYear", func(t time.Time) float64 { return float64(t.UTC().Year()) })
	getter("getUTCMonth", func(t time.Time) float64 { return float64(int(t.UTC().Month()) - 1) })
	getter("getUTCDate", func(t time.Time) float64 { return float64(t.UTC().Day()) })
	getter("getUTCDay", func(t time.Time) float64 { return float64(int(t.UTC().Weekday())) })
	getter("getUTCHours", func(t time.Time) float64 { return float64(t.UTC().Hour()) })
	getter("getUTCMinutes", func(t time.Time) float64 { return float64(t.UTC().Minute()) })
	getter("getUTCSeconds", func(t time.Time) float64 { return float64(t.UTC().Second()) })
	getter("getTimezoneOffset", func(t time.Time) float64 { _, off := t.Zone(); return float64(-off / 60) })

	proto.SetOwn(interp.StringKey("getTime"), nativeFn(it, "getTime", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, ok := this.(*interp.Object)
		if !ok || obj.Class != interp.ClassDate {
			return interp.Number(nan()), nil
		}
		return interp.Number(obj.DateValue), nil
	}))
	proto.SetOwn(interp.StringKey("valueOf"), proto.Get(interp.StringKey("getTime"), proto))

	proto.SetOwn(interp.StringKey("setTime"), nativeFn(it, "setTime", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, ok := this.(*interp.Object)
		if !ok || obj.Class != interp.ClassDate {
			return interp.Number(nan()), nil
		}
		obj.DateValue = interp.ToNumber(arg(args, 0))
		return interp.Number(obj.DateValue), nil
	}))

	setter := func(name string, apply func(t time.Time, args []interp.Value) time.Time) {
		proto.SetOwn(interp.StringKey(name), nativeFn(it, name, 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
			obj, ok := this.(*interp.Object)
			if !ok || obj.Class != interp.ClassDate {
				return interp.Number(nan()), nil
			}
			base := msToTime(obj.DateValue)
			if math.IsNaN(obj.DateValue) {
				base = time.Unix(0, 0).In(time.Local)
			}
			obj.DateValue = timeToMs(apply(base, args))
			return interp.Number(obj.DateValue), nil
		})
	}
	setter("setFullYear", func(t time.Time, args []interp.Value) time.Time {
		y := int(interp.ToNumber(arg(args, 0)))
		month := t.Month()
		day := t.Day()
		if len(args) > 1 {
			month = time.Month(int(interp.ToNumber(args[1])) + 1)
		}
		if len(args) > 2 {
			day = int(interp.ToNumber(args[2]))
		}
		return time.Date(y, month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	})
	setter("setMonth", func(t time.Time, args []interp.Value) time.Time {
		month := time.Month(int(interp.ToNumber(arg(args, 0))) + 1)
		day := t.Day()
		if len(args) > 1 {
			day = int(interp.ToNumber(args[1]))
		}
		return time.Date(t.Year(), month, day, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	})
	setter("setDate", func(t time.Time, args []interp.Value) time.Time {
		return time.Date(t.Year(), t.Month(), int(interp.ToNumber(arg(args, 0))), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	})
	setter("setHours", func(t time.Time, args []interp.Value) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), int(interp.ToNumber(arg(args, 0))), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	})
	setter("setMinutes", func(t time.Time, args []interp.Value) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), int(interp.ToNumber(arg(args, 0))), t.Second(), t.Nanosecond(), t.Location())
	})
	setter("setSeconds", func(t time.Time, args []interp.Value) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), int(interp.ToNumber(arg(args, 0))), t.Nanosecond(), t.Location())
	})
	setter("setMilliseconds", func(t time.Time, args []interp.Value) time.Time {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), int(interp.ToNumber(arg(args, 0)))*1e6, t.Location())
	})

	proto.SetOwn(interp.StringKey("toISOString"), nativeFn(it, "toISOString", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, ok := this.(*interp.Object)
		if !ok || obj.Class != interp.ClassDate || math.IsNaN(obj.DateValue) {
			return nil, errors.RangeError(nil, "Invalid time value")
		}
		return interp.String(msToTime(obj.DateValue).UTC().Format("2006-01-02T15:04:05.000Z")), nil
	}))
	proto.SetOwn(interp.StringKey("toJSON"), proto.Get(interp.StringKey("toISOString"), proto))
	proto.SetOwn(interp.StringKey("toString"), nativeFn(it, "toString", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, ok := this.(*interp.Object)
		if !ok || obj.Class != interp.ClassDate {
			return interp.String("Invalid Date"), nil
		}
		if math.IsNaN(obj.DateValue) {
			return interp.String("Invalid Date"), nil
		}
		return interp.String(msToTime(obj.DateValue).Format("Mon Jan 02 2006 15:04:05 GMT-0700 (MST)")), nil
	}))
	proto.SetOwn(interp.StringKey("toDateString"), nativeFn(it, "toDateString", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		obj, ok := this.(*interp.Object)
		if !ok || obj.Class != interp.ClassDate || math.IsNaN(obj.DateValue) {
			return interp.String("Invalid Date"), nil
		}
		return interp.String(msToTime(obj.DateValue).Format("Mon Jan 02 2006")), nil
	}))

	ctor := nativeFn(it, "Date", 7, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		if _, isNew := this.(*interp.NewCall); !isNew {
			return interp.String(time.Now().In(time.Local).Format("Mon Jan 02 2006 15:04:05 GMT-0700 (MST)")), nil
		}
		ms := dateValueFromArgs(args)
		return &interp.Object{Proto: proto, Class: interp.ClassDate, DateValue: ms, Extensible: true}, nil
	})
	ctor.SetOwn(interp.StringKey("prototype"), proto)
	proto.SetOwn(interp.StringKey("constructor"), ctor)
	ctor.SetOwn(interp.StringKey("now"), nativeFn(it, "now", 0, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		return interp.Number(float64(time.Now().UnixMilli())), nil
	}))
	ctor.SetOwn(interp.StringKey("parse"), nativeFn(it, "parse", 1, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		s := interp.ToStringValue(arg(args, 0))
		return interp.Number(parseDateString(s)), nil
	}))
	ctor.SetOwn(interp.StringKey("UTC"), nativeFn(it, "UTC", 7, func(it *interp.Interpreter, this interp.Value, args []interp.Value) (interp.Value, error) {
		y := int(interp.ToNumber(arg(args, 0)))
		month := 0
		if len(args) > 1 {
			month = int(interp.ToNumber(args[1]))
		}
		day := 1
		if len(args) > 2 {
			day = int(interp.ToNumber(args[2]))
		}
		hour, min_, sec, msec := 0, 0, 0, 0
		if len(args) > 3 {
			hour = int(interp.ToNumber(args[3]))
		}
		if len(args) > 4 {
			min_ = int(interp.ToNumber(args[4]))
		}
		if len(args) > 5 {
			sec = int(interp.ToNumber(args[5]))
		}
		if len(args) > 6 {
			msec = int(interp.ToNumber(args[6]))
		}
		t := time.Date(y, time.Month(month+1), day, hour, min_, sec, msec*1e6, time.UTC)
		return interp.Number(float64(t.UnixMilli())), nil
	}))
	defineGlobal(it, "Date", ctor)
}

func msToTime(ms float64) time.Time {
	return time.UnixMilli(int64(ms)).In(time.Local)
}

func timeToMs(t time.Time) float64 {
	return float64(t.UnixMilli())
}

// dateValueFromArgs implements the `new Date(...)` overload resolution:
// no args is "now", one numeric/Date arg is a timestamp, one string arg is
// parsed, two-or-more args are year/month/day/hour/minute/second/ms in the
// host's local time zone.
func dateValueFromArgs(args []interp.Value) float64 {
	switch len(args) {
	case 0:
		return float64(time.Now().UnixMilli())
	case 1:
		switch v := args[0].(type) {
		case interp.String:
			return parseDateString(string(v))
		case *interp.Object:
			if v.Class == interp.ClassDate {
				return v.DateValue
			}
			return interp.ToNumber(v)
		default:
			return interp.ToNumber(v)
		}
	default:
		y := int(interp.ToNumber(args[0]))
		if y >= 0 && y <= 99 {
			y += 1900
		}
		month := int(interp.ToNumber(args[1]))
		day := 1
		if len(args) > 2 {
			day = int(interp.ToNumber(args[2]))
		}
		hour, min_, sec, msec := 0, 0, 0, 0
		if len(args) > 3 {
			hour = int(interp.ToNumber(args[3]))
		}
		if len(args) > 4 {
			min_ = int(interp.ToNumber(args[4]))
		}
		if len(args) > 5 {
			sec = int(interp.ToNumber(args[5]))
		}
		if len(args) > 6 {
			msec = int(interp.ToNumber(args[6]))
		}
		t := time.Date(y, time.Month(month+1), day, hour, min_, sec, msec*1e6, time.Local)
		return timeToMs(t)
	}
}

// parseDateString tries the ISO 8601 layouts that carry a zone (Z or an
// offset) first, then parses a zone-less date-time, a date-only string or
// an RFC 1123 string against time.Local per the host-inherits-time-zone
// decision; anything else yields NaN.
func parseDateString(s string) float64 {
	layouts := []string{
		"2006-01-02T15:04:05.000Z",
		"2006-01-02T15:04:05Z",
		time.RFC3339,
		time.RFC3339Nano,
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return timeToMs(t)
		}
	}
	if t, err := time.ParseInLocation("2006-01-02T15:04:05", s, time.Local); err == nil {
		return timeToMs(t)
	}
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return timeToMs(t)
	}
	if t, err := time.ParseInLocation(time.RFC1123, s, time.Local); err == nil {
		return timeToMs(t)
	}
	return math.NaN()
}
