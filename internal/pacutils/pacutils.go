// Package pacutils embeds the Netscape PAC helper routines (§4.4) that are
// compiled into every PAC runtime context alongside the user's script.
package pacutils

// Source is the pacutils.js helper library: isPlainHostName, dnsDomainIs,
// localHostOrDomainIs, isResolvable, isInNet, shExpMatch, weekdayRange,
// dateRange, timeRange, dnsDomainLevels. dnsResolve and myIpAddress are
// provided by the host (internal/pacrt), not defined here.
const Source = `
function isPlainHostName(host) {
    return host.indexOf('.') == -1 && host.indexOf(':') == -1;
}

function dnsDomainIs(host, domain) {
    return host.length >= domain.length &&
        host.substring(host.length - domain.length) == domain;
}

function localHostOrDomainIs(host, hostdom) {
    return host == hostdom ||
        (isPlainHostName(host) && hostdom.lastIndexOf(host + '.', 0) == 0);
}

function isResolvable(host) {
    return dnsResolve(host) != null;
}

function isInNet(host, pattern, mask) {
    var ip = dnsResolve(host);
    if (ip == null) {
        return false;
    }
    return (convert_addr(ip) & convert_addr(mask)) == (convert_addr(pattern) & convert_addr(mask));
}

function convert_addr(ipchars) {
    var bytes = ipchars.split('.');
    var result = ((bytes[0] & 0xff) << 24) |
                 ((bytes[1] & 0xff) << 16) |
                 ((bytes[2] & 0xff) << 8)  |
                  (bytes[3] & 0xff);
    return result;
}

function shExpMatch(str, shexp) {
    var re = shexp.replace(/[.+^${}()|[\]\\]/g, '\\$&')
                   .replace(/\*/g, '.*')
                   .replace(/\?/g, '.');
    return new RegExp('^' + re + '$').test(str);
}

var wdays = {SUN: 0, MON: 1, TUE: 2, WED: 3, THU: 4, FRI: 5, SAT: 6};
var months = {JAN: 0, FEB: 1, MAR: 2, APR: 3, MAY: 4, JUN: 5, JUL: 6, AUG: 7, SEP: 8, OCT: 9, NOV: 10, DEC: 11};

function weekdayRange() {
    var args = Array.prototype.slice.call(arguments);
    var gmt = args.length > 0 && args[args.length - 1] === 'GMT';
    if (gmt) { args.pop(); }
    var now = new Date();
    var day = gmt ? now.getUTCDay() : now.getDay();
    if (args.length === 1) {
        return day == wdays[args[0]];
    }
    var start = wdays[args[0]];
    var end = wdays[args[1]];
    if (start <= end) {
        return day >= start && day <= end;
    }
    return day >= start || day <= end;
}

function dateRange() {
    var args = Array.prototype.slice.call(arguments);
    var argc = args.length;
    if (argc < 1) {
        return false;
    }
    var isGMT = (args[argc - 1] === 'GMT');
    if (isGMT) { argc--; }

    var now = new Date();
    if (isGMT) {
        now = new Date(now.getTime() + now.getTimezoneOffset() * 60000);
    }

    function asMonth(v) {
        var m = months[v];
        return m === undefined ? null : m;
    }

    if (argc == 1) {
        var tmp = parseInt(args[0], 10);
        if (isNaN(tmp)) {
            var mon = asMonth(args[0]);
            return mon !== null && now.getMonth() == mon;
        } else if (tmp < 32) {
            return now.getDate() == tmp;
        }
        return now.getFullYear() == tmp;
    }

    var year = now.getFullYear();
    var date1 = new Date(year, 0, 1, 0, 0, 0);
    var date2 = new Date(year, 11, 31, 23, 59, 59);
    var adjustMonth = (argc <= 2);
    var half = argc >> 1;

    for (var i = 0; i < half; i++) {
        var tmp = parseInt(args[i], 10);
        if (isNaN(tmp)) {
            var mon = asMonth(args[i]);
            if (mon !== null) { date1.setMonth(mon); }
        } else if (tmp < 32) {
            date1.setDate(tmp);
        } else {
            date1.setFullYear(tmp);
        }
    }

    for (var i = half; i < argc; i++) {
        var tmp = parseInt(args[i], 10);
        if (isNaN(tmp)) {
            var mon = asMonth(args[i]);
            if (mon !== null) { date2.setMonth(mon); }
        } else if (tmp < 32) {
            date2.setDate(tmp);
        } else {
            date2.setFullYear(tmp);
        }
    }

    if (adjustMonth) {
        date1.setMonth(now.getMonth());
        date2.setMonth(now.getMonth());
    }

    return now >= date1 && now <= date2;
}

function timeRange() {
    var args = Array.prototype.slice.call(arguments);
    var argc = args.length;
    if (argc < 1) {
        return false;
    }
    var isGMT = (args[argc - 1] === 'GMT');
    if (isGMT) { argc--; }

    var now = new Date();
    var hour = isGMT ? now.getUTCHours() : now.getHours();
    var min = isGMT ? now.getUTCMinutes() : now.getMinutes();
    var sec = isGMT ? now.getUTCSeconds() : now.getSeconds();

    switch (argc) {
        case 1:
            return hour == parseInt(args[0], 10);
        case 2:
            return hour >= parseInt(args[0], 10) && hour < parseInt(args[1], 10);
        case 4:
            var t1 = args[0] * 60 + args[1];
            var t2 = args[2] * 60 + args[3];
            var t = hour * 60 + min;
            return t >= t1 && t < t2;
        case 6:
            var s1 = args[0] * 3600 + args[1] * 60 + args[2];
            var s2 = args[3] * 3600 + args[4] * 60 + args[5];
            var s = hour * 3600 + min * 60 + sec;
            return s >= s1 && s < s2;
        default:
            return false;
    }
}

function dnsDomainLevels(host) {
    return host.split('.').length - 1;
}
`
