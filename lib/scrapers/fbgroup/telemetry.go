package fbgroup

import "fbharvest/lib/telemetry"

var tracer = telemetry.Tracer("fbharvest.lib.scrapers.fbgroup")
